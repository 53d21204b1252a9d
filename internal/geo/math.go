package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// MaxLat is the latitude limit of the Web Mercator projection.
const MaxLat = 85.05112878

// TileXY converts a WGS84 position to slippy map tile indexes at zoom z.
//
// Longitude maps linearly to [0, 2^z); latitude goes through the forward
// Mercator projection, so tiles near the poles cover less ground.
func TileXY(lat, lng float64, z int) (x, y int) {
	lat = clamp(lat, -MaxLat, MaxLat)
	n := float64(int(1) << z)

	fx := (lng + 180.0) / 360.0 * n

	latRad := lat * math.Pi / 180.0
	fy := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n

	maxIdx := int(n) - 1
	x = clampInt(int(math.Floor(fx)), 0, maxIdx)
	y = clampInt(int(math.Floor(fy)), 0, maxIdx)

	return x, y
}

// TileRange returns the inclusive tile index range covering b at zoom z.
func TileRange(b orb.Bound, z int) (minX, minY, maxX, maxY int) {
	// north-west corner gives the smallest y
	minX, minY = TileXY(b.Max.Lat(), b.Min.Lon(), z)
	maxX, maxY = TileXY(b.Min.Lat(), b.Max.Lon(), z)

	return minX, minY, maxX, maxY
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
