// Package geo handles geographic data structures and coordinate conversions.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineFeature builds a GeoJSON LineString feature from ordered vertices.
// GeoJSON stores positions as [Lon, Lat], so the vertices are swapped here.
func LineFeature(points []LatLng, props map[string]interface{}) *geojson.Feature {
	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, p.Point())
	}

	f := geojson.NewFeature(line)
	for k, v := range props {
		f.Properties[k] = v
	}

	return f
}

// LineBound returns the bounding box of all given polylines.
// The second result is false when there are no vertices at all.
func LineBound(lines ...[]LatLng) (orb.Bound, bool) {
	var (
		b     orb.Bound
		found bool
	)

	for _, line := range lines {
		for _, p := range line {
			if !found {
				b = p.Point().Bound()
				found = true
				continue
			}
			b = b.Extend(p.Point())
		}
	}

	return b, found
}

// PadBound grows the bound by the given number of degrees on each side,
// clamped to valid WGS84 ranges.
func PadBound(b orb.Bound, degrees float64) orb.Bound {
	b.Min[0] = clamp(b.Min[0]-degrees, -180, 180)
	b.Min[1] = clamp(b.Min[1]-degrees, -MaxLat, MaxLat)
	b.Max[0] = clamp(b.Max[0]+degrees, -180, 180)
	b.Max[1] = clamp(b.Max[1]+degrees, -MaxLat, MaxLat)

	return b
}
