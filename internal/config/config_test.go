package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/woozymasta/faultmap/internal/geo"
	"github.com/woozymasta/faultmap/internal/mapview"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tiles:\n  access_token: pk.test\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Map.Container != "mapid" || cfg.Map.Zoom != 5 || cfg.Map.Center != DefaultCenter {
		t.Errorf("map view = %+v", cfg.Map)
	}
	if cfg.Tiles.URL != DefaultTileURL || cfg.Tiles.ID != "mapbox.streets" || cfg.Tiles.MaxZoom != 18 {
		t.Errorf("tiles = %+v", cfg.Tiles)
	}
	if cfg.Tiles.AccessToken != "pk.test" {
		t.Errorf("access token = %q", cfg.Tiles.AccessToken)
	}
	if *cfg.Faults.Style != mapview.DefaultStyle || *cfg.Faults.Highlight != mapview.HighlightStyle {
		t.Errorf("styles = %+v / %+v", *cfg.Faults.Style, *cfg.Faults.Highlight)
	}
	if cfg.Faults.Source != DefaultFaultSource {
		t.Errorf("source = %q", cfg.Faults.Source)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
map:
  container: faults
  center: [-43.5, 172.6]
  zoom: 7
tiles:
  url: https://tiles.example.com/{z}/{x}/{y}.png
  cache_ttl: 30m
  direct: true
faults:
  source: https://example.com/faults.json
  style: {color: green, opacity: 0.25, weight: 3}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Map.Container != "faults" || cfg.Map.Center != (geo.LatLng{Lat: -43.5, Lng: 172.6}) || cfg.Map.Zoom != 7 {
		t.Errorf("map view = %+v", cfg.Map)
	}
	if cfg.Tiles.CacheTTL != 30*time.Minute || !cfg.Tiles.Direct {
		t.Errorf("tiles = %+v", cfg.Tiles)
	}
	want := mapview.Style{Color: "green", Opacity: 0.25, Weight: 3}
	if *cfg.Faults.Style != want {
		t.Errorf("style = %+v", *cfg.Faults.Style)
	}
	if *cfg.Faults.Highlight != mapview.HighlightStyle {
		t.Errorf("highlight = %+v", *cfg.Faults.Highlight)
	}
}

func TestParseZeroView(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		center geo.LatLng
		zoom   int
	}{
		{name: "explicit zero", yaml: "map:\n  center: [0, 0]\n  zoom: 0\n", center: geo.LatLng{}, zoom: 0},
		{name: "zero zoom only", yaml: "map:\n  zoom: 0\n", center: DefaultCenter, zoom: 0},
		{name: "zero center only", yaml: "map:\n  center: [0, 0]\n", center: geo.LatLng{}, zoom: DefaultZoom},
		{name: "empty map section", yaml: "map:\n", center: DefaultCenter, zoom: DefaultZoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.Map.Center != tt.center || cfg.Map.Zoom != tt.zoom {
				t.Errorf("map view = %+v, want center %v zoom %d", cfg.Map, tt.center, tt.zoom)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "zoom above max", yaml: "map: {zoom: 20}\n"},
		{name: "negative zoom", yaml: "map: {zoom: -1}\n"},
		{name: "container with markup", yaml: "map: {container: '\"><script>'}\n"},
		{name: "container starting with digit", yaml: "map: {container: 1map}\n"},
		{name: "bad center", yaml: "map: {center: [95, 0]}\n"},
		{name: "url without placeholders", yaml: "tiles: {url: https://example.com/tile.png}\n"},
		{name: "odd tile size", yaml: "tiles: {tile_size: 300}\n"},
		{name: "bad opacity", yaml: "faults: {style: {color: red, opacity: 2, weight: 2}}\n"},
		{name: "zero weight", yaml: "faults: {highlight: {color: blue, opacity: 1, weight: 0}}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error")
	}
}
