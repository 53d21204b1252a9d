package mapview

import (
	"sync"

	"github.com/paulmach/orb/geojson"
	"github.com/woozymasta/faultmap/internal/geo"
)

// Polyline is a vector line through an ordered list of vertices.
type Polyline struct {
	handlers   map[EventType][]Handler
	popup      *Popup
	Properties map[string]interface{}
	points     []geo.LatLng
	style      Style
	mu         sync.RWMutex
}

// NewPolyline creates a line with the given style. The vertices are copied.
func NewPolyline(points []geo.LatLng, style Style) *Polyline {
	pts := make([]geo.LatLng, len(points))
	copy(pts, points)

	return &Polyline{
		points:     pts,
		style:      style,
		handlers:   make(map[EventType][]Handler),
		Properties: make(map[string]interface{}),
	}
}

// LayerType implements Layer.
func (p *Polyline) LayerType() string { return "polyline" }

// Points returns a copy of the vertices.
func (p *Polyline) Points() []geo.LatLng {
	out := make([]geo.LatLng, len(p.points))
	copy(out, p.points)
	return out
}

// SetStyle replaces the line style.
func (p *Polyline) SetStyle(s Style) *Polyline {
	p.mu.Lock()
	p.style = s
	p.mu.Unlock()
	return p
}

// Style returns the current line style.
func (p *Polyline) Style() Style {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style
}

// BindPopup attaches a popup. Several lines may share one popup.
func (p *Polyline) BindPopup(popup *Popup) *Polyline {
	p.mu.Lock()
	p.popup = popup
	p.mu.Unlock()
	return p
}

// Popup returns the bound popup, or nil.
func (p *Polyline) Popup() *Popup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.popup
}

// On registers h for events of type t. Handlers run in registration order.
func (p *Polyline) On(t EventType, h Handler) *Polyline {
	p.mu.Lock()
	p.handlers[t] = append(p.handlers[t], h)
	p.mu.Unlock()
	return p
}

// Fire delivers an event to the handlers registered for its type.
// The event target is set to p. Handlers run on the caller's goroutine.
func (p *Polyline) Fire(e Event) {
	p.mu.RLock()
	hs := make([]Handler, len(p.handlers[e.Type]))
	copy(hs, p.handlers[e.Type])
	p.mu.RUnlock()

	e.Target = p
	for _, h := range hs {
		h(e)
	}
}

// Listens reports whether any handler is registered for t.
func (p *Polyline) Listens(t EventType) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers[t]) > 0
}

// Feature renders the line as a GeoJSON feature with its properties and current style.
func (p *Polyline) Feature() *geojson.Feature {
	p.mu.RLock()
	props := make(map[string]interface{}, len(p.Properties)+1)
	for k, v := range p.Properties {
		props[k] = v
	}
	props["style"] = p.style
	p.mu.RUnlock()

	return geo.LineFeature(p.points, props)
}
