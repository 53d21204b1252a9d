package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// LatLng is a geographic position in degrees.
// It marshals as a [lat, lng] pair, the order used by Leaflet and the fault feed.
type LatLng struct {
	Lat float64
	Lng float64
}

// Point converts to an orb point (X = Lng, Y = Lat).
func (ll LatLng) Point() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// FromPoint converts an orb point back to a LatLng.
func FromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// Validate reports whether the position is finite and inside WGS84 ranges.
func (ll LatLng) Validate() error {
	if math.IsNaN(ll.Lat) || math.IsInf(ll.Lat, 0) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lng, 0) {
		return fmt.Errorf("non-finite coordinate [%v, %v]", ll.Lat, ll.Lng)
	}
	if ll.Lat < -90 || ll.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", ll.Lat)
	}
	if ll.Lng < -180 || ll.Lng > 180 {
		return fmt.Errorf("longitude %v out of range", ll.Lng)
	}

	return nil
}

// MarshalJSON encodes the position as [lat, lng].
func (ll LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{ll.Lat, ll.Lng})
}

// UnmarshalJSON decodes a [lat, lng] pair. Any other arity is an error.
func (ll *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [lat, lng] pair, got %d values", len(pair))
	}

	ll.Lat, ll.Lng = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the position as a [lat, lng] sequence.
func (ll LatLng) MarshalYAML() (interface{}, error) {
	return []float64{ll.Lat, ll.Lng}, nil
}

// UnmarshalYAML decodes a [lat, lng] sequence.
func (ll *LatLng) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var pair []float64
	if err := unmarshal(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [lat, lng] pair, got %d values", len(pair))
	}

	ll.Lat, ll.Lng = pair[0], pair[1]
	return nil
}
