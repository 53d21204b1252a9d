// Package atlas builds the fault map scene: the map view with its base tile
// layer and the interactive fault-trace layer group.
package atlas

import (
	"github.com/woozymasta/faultmap/internal/config"
	"github.com/woozymasta/faultmap/internal/mapview"

	"github.com/rs/zerolog/log"
)

// NewMap creates the map view and attaches the base tile layer.
func NewMap(cfg *config.Config) *mapview.Map {
	m := mapview.NewMap(cfg.Map.Container, cfg.Map.Center, cfg.Map.Zoom)

	(&mapview.TileLayer{
		URLTemplate: cfg.Tiles.URL,
		ID:          cfg.Tiles.ID,
		AccessToken: cfg.Tiles.AccessToken,
		Attribution: cfg.Tiles.Attribution,
		MaxZoom:     cfg.Tiles.MaxZoom,
	}).AddTo(m)

	if cfg.Tiles.AccessToken == "" {
		log.Warn().Msg("Tile provider access token is empty, base map requests will likely be rejected")
	}

	log.Debug().
		Str("container", m.Container).
		Float64("lat", m.Center.Lat).
		Float64("lng", m.Center.Lng).
		Int("zoom", m.Zoom).
		Str("tiles", cfg.Tiles.ID).
		Msg("Map view initialized")

	return m
}
