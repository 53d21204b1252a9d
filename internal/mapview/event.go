package mapview

import "github.com/woozymasta/faultmap/internal/geo"

// EventType names a pointer interaction on a layer.
type EventType string

// Pointer events delivered to vector layers.
const (
	PointerEnter EventType = "mouseover"
	PointerLeave EventType = "mouseout"
	Click        EventType = "click"
)

// Event is a pointer interaction at a geographic location.
type Event struct {
	Target *Polyline
	Type   EventType
	LatLng geo.LatLng
}

// Handler reacts to an event on a layer.
type Handler func(e Event)
