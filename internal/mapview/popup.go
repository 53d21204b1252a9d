package mapview

import (
	"sync"

	"github.com/woozymasta/faultmap/internal/geo"
)

// Popup is an overlay anchored to a map location showing HTML content.
type Popup struct {
	content string
	latLng  geo.LatLng
	mu      sync.RWMutex
	open    bool
}

// PopupState is a point-in-time copy of a popup.
type PopupState struct {
	Content string     `json:"content"`
	LatLng  geo.LatLng `json:"latlng"`
	Open    bool       `json:"open"`
}

// NewPopup returns a closed, empty popup.
func NewPopup() *Popup {
	return &Popup{}
}

// SetLatLng moves the popup anchor.
func (p *Popup) SetLatLng(ll geo.LatLng) *Popup {
	p.mu.Lock()
	p.latLng = ll
	p.mu.Unlock()
	return p
}

// SetContent replaces the popup HTML.
func (p *Popup) SetContent(html string) *Popup {
	p.mu.Lock()
	p.content = html
	p.mu.Unlock()
	return p
}

// OpenOn opens the popup on m, closing whichever popup was open there.
func (p *Popup) OpenOn(m *Map) *Popup {
	m.OpenPopup(p)
	return p
}

// IsOpen reports whether the popup is shown.
func (p *Popup) IsOpen() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.open
}

// Snapshot copies the popup state.
func (p *Popup) Snapshot() PopupState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PopupState{Content: p.content, LatLng: p.latLng, Open: p.open}
}

func (p *Popup) setOpen(open bool) {
	p.mu.Lock()
	p.open = open
	p.mu.Unlock()
}
