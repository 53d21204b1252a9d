package server

import (
	"sync/atomic"

	"github.com/woozymasta/faultmap/assets"
	"github.com/woozymasta/faultmap/internal/config"
	"github.com/woozymasta/faultmap/internal/mapview"
	"github.com/woozymasta/faultmap/internal/tiles"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Map       *mapview.Map
	Tiles     *tiles.Cache
	faults    atomic.Pointer[mapview.LayerGroup]
	failed    atomic.Bool
	IndexHTML []byte
	Favicon   []byte
	EmptyTile []byte
}

// NewServerContext initializes the handler context and renders the page for
// the map container. cache may be nil when browsers fetch tiles straight from
// the provider.
func NewServerContext(cfg *config.Config, m *mapview.Map, cache *tiles.Cache) (*ServerContext, error) {
	minifier := assets.NewMinifier()

	index, err := assets.Index(minifier, m.Container)
	if err != nil {
		return nil, err
	}
	favicon, err := assets.Favicon(minifier)
	if err != nil {
		return nil, err
	}

	empty, err := tiles.EmptyTile(cfg.Tiles.TileSize)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render empty tile, misses will return 404")
	}

	log.Info().
		Str("container", m.Container).
		Int("page_bytes", len(index)).
		Bool("tile_proxy", cache != nil).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:    cfg,
		Map:       m,
		Tiles:     cache,
		IndexHTML: index,
		Favicon:   favicon,
		EmptyTile: empty,
	}, nil
}

// SetFaults publishes the loaded fault layer. Only the first call has effect.
func (s *ServerContext) SetFaults(g *mapview.LayerGroup) bool {
	return s.faults.CompareAndSwap(nil, g)
}

// FaultsFailed marks the fault layer as permanently unavailable.
func (s *ServerContext) FaultsFailed() {
	s.failed.Store(true)
}

// Faults returns the fault layer, or nil while it is not loaded.
func (s *ServerContext) Faults() *mapview.LayerGroup {
	return s.faults.Load()
}
