package mapview

import (
	"sync"

	"github.com/paulmach/orb/geojson"
)

// LayerGroup aggregates polylines so they can be added to a map as one unit.
type LayerGroup struct {
	layers []*Polyline
	mu     sync.RWMutex
}

// NewLayerGroup returns an empty group.
func NewLayerGroup() *LayerGroup {
	return &LayerGroup{}
}

// LayerType implements Layer.
func (g *LayerGroup) LayerType() string { return "group" }

// AddLayer appends a line to the group.
func (g *LayerGroup) AddLayer(p *Polyline) *LayerGroup {
	g.mu.Lock()
	g.layers = append(g.layers, p)
	g.mu.Unlock()
	return g
}

// ClearLayers removes every line from the group.
func (g *LayerGroup) ClearLayers() *LayerGroup {
	g.mu.Lock()
	g.layers = nil
	g.mu.Unlock()
	return g
}

// Layers returns the lines in insertion order.
func (g *LayerGroup) Layers() []*Polyline {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Polyline, len(g.layers))
	copy(out, g.layers)
	return out
}

// Len returns the number of lines.
func (g *LayerGroup) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.layers)
}

// AddTo adds the group to m.
func (g *LayerGroup) AddTo(m *Map) *LayerGroup {
	m.AddLayer(g)
	return g
}

// FeatureCollection renders every line as a GeoJSON feature. The "id"
// property is the line's position in the group.
func (g *LayerGroup) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, l := range g.Layers() {
		f := l.Feature()
		f.ID = i
		fc.Append(f)
	}
	return fc
}
