package mapview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/woozymasta/faultmap/internal/geo"
)

// Layer is anything that can be added to a Map.
type Layer interface {
	LayerType() string
}

// Map is a map view bound to a page container.
// It is safe for concurrent use.
type Map struct {
	popup     *Popup
	openPopup *Popup
	Container string
	layers    []Layer
	Center    geo.LatLng
	Zoom      int
	mu        sync.RWMutex
}

// NewMap creates a map view centered at center with the given zoom.
// The map owns a single popup that every layer shares.
func NewMap(container string, center geo.LatLng, zoom int) *Map {
	return &Map{
		Container: container,
		Center:    center,
		Zoom:      zoom,
		popup:     NewPopup(),
	}
}

// Popup returns the shared popup of the map.
func (m *Map) Popup() *Popup {
	return m.popup
}

// AddLayer adds l to the map. Adding a layer that is already present is a no-op.
func (m *Map) AddLayer(l Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.layers {
		if existing == l {
			return
		}
	}
	m.layers = append(m.layers, l)
}

// RemoveLayer removes l from the map, reporting whether it was present.
func (m *Map) RemoveLayer(l Layer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing == l {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return true
		}
	}
	return false
}

// HasLayer reports whether l was added to the map.
func (m *Map) HasLayer(l Layer) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, existing := range m.layers {
		if existing == l {
			return true
		}
	}
	return false
}

// Layers returns the layers in the order they were added.
func (m *Map) Layers() []Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// TileLayers returns the base tile layers of the map.
func (m *Map) TileLayers() []*TileLayer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*TileLayer
	for _, l := range m.layers {
		if t, ok := l.(*TileLayer); ok {
			out = append(out, t)
		}
	}
	return out
}

// OpenPopup opens p on the map, closing any other popup first.
func (m *Map) OpenPopup(p *Popup) {
	m.mu.Lock()
	prev := m.openPopup
	m.openPopup = p
	m.mu.Unlock()

	if prev != nil && prev != p {
		prev.setOpen(false)
	}
	p.setOpen(true)
}

// ClosePopup closes the currently open popup, if any.
func (m *Map) ClosePopup() {
	m.mu.Lock()
	prev := m.openPopup
	m.openPopup = nil
	m.mu.Unlock()

	if prev != nil {
		prev.setOpen(false)
	}
}

// OpenedPopup returns the popup currently open on the map, or nil.
func (m *Map) OpenedPopup() *Popup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.openPopup
}

// TileLayer is a raster base map served by a remote tile provider.
type TileLayer struct {
	URLTemplate string `json:"url"`
	ID          string `json:"id,omitempty"`
	AccessToken string `json:"-"`
	Attribution string `json:"attribution,omitempty"`
	MaxZoom     int    `json:"maxZoom"`
}

// LayerType implements Layer.
func (t *TileLayer) LayerType() string { return "tile" }

// URL expands the template for a tile.
// Supported placeholders: {id}, {z}, {x}, {y}, {tms_y}, {accessToken}.
func (t *TileLayer) URL(z, x, y int) string {
	r := strings.NewReplacer(
		"{id}", t.ID,
		"{z}", fmt.Sprint(z),
		"{x}", fmt.Sprint(x),
		"{y}", fmt.Sprint(y),
		"{tms_y}", fmt.Sprint((1<<z)-1-y),
		"{accessToken}", t.AccessToken,
	)
	return r.Replace(t.URLTemplate)
}

// AddTo adds the tile layer to m and returns the layer for chaining.
func (t *TileLayer) AddTo(m *Map) *TileLayer {
	m.AddLayer(t)
	return t
}
