// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/woozymasta/faultmap/internal/geo"
	"github.com/woozymasta/faultmap/internal/mapview"

	"gopkg.in/yaml.v3"
)

// Default values for the map view and tile provider.
const (
	DefaultContainer   = "mapid"
	DefaultZoom        = 5
	DefaultTileURL     = "https://api.tiles.mapbox.com/v4/{id}/{z}/{x}/{y}.png?access_token={accessToken}"
	DefaultTileID      = "mapbox.streets"
	DefaultMaxZoom     = 18
	DefaultTileSize    = 256
	DefaultCacheDir    = "tiles"
	DefaultCacheSize   = 512
	DefaultCacheTTL    = time.Hour
	DefaultFaultSource = "data/fault_traces.json"
	DefaultDataDir     = "data"
	DefaultAttribution = `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
		`<a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, ` +
		`Imagery © <a href="https://www.mapbox.com/">Mapbox</a>`
)

// DefaultCenter is the initial map center (Nelson, New Zealand).
var DefaultCenter = geo.LatLng{Lat: -41.2728, Lng: 173.2995}

// ErrInvalid is wrapped by validation errors.
var ErrInvalid = errors.New("invalid configuration")

// container ids are written into the page markup and looked up by script.js
var containerRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Config represents the root configuration file structure.
type Config struct {
	Map    MapView `yaml:"map" json:"map"`
	Tiles  Tiles   `yaml:"tiles" json:"tiles"`
	Faults Faults  `yaml:"faults" json:"faults"`
}

// MapView is the initial view of the map.
type MapView struct {
	Container string     `yaml:"container,omitempty" json:"container"`
	Center    geo.LatLng `yaml:"center,omitempty" json:"center"`
	Zoom      int        `yaml:"zoom,omitempty" json:"zoom"`
}

// Tiles configures the base tile layer and the local tile cache.
type Tiles struct {
	URL         string        `yaml:"url,omitempty" json:"-"`
	ID          string        `yaml:"id,omitempty" json:"id"`
	AccessToken string        `yaml:"access_token,omitempty" json:"-"`
	Attribution string        `yaml:"attribution,omitempty" json:"attribution"`
	CacheDir    string        `yaml:"cache_dir,omitempty" json:"-"`
	MaxZoom     int           `yaml:"max_zoom,omitempty" json:"maxZoom"`
	TileSize    int           `yaml:"tile_size,omitempty" json:"tileSize"`
	CacheSize   int           `yaml:"cache_size,omitempty" json:"-"`
	CacheTTL    time.Duration `yaml:"cache_ttl,omitempty" json:"-"`

	// Direct makes browsers fetch tiles from the provider, which exposes the access token.
	Direct bool `yaml:"direct,omitempty" json:"-"`
}

// Faults configures the fault trace feed and its line styles.
type Faults struct {
	Source    string         `yaml:"source,omitempty" json:"-"`
	DataDir   string         `yaml:"data_dir,omitempty" json:"-"`
	Style     *mapview.Style `yaml:"style,omitempty" json:"style"`
	Highlight *mapview.Style `yaml:"highlight,omitempty" json:"highlight"`
}

// Load reads and parses the YAML configuration file from the specified path.
// Missing values are filled with defaults and the result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration from memory.
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := newConfig()
	cfg.ApplyDefaults()
	return &cfg
}

// newConfig presets the map view before decoding: zoom 0 and center [0, 0]
// are valid settings, so only keys absent from the file keep the defaults.
func newConfig() Config {
	return Config{
		Map: MapView{Center: DefaultCenter, Zoom: DefaultZoom},
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Map.Container == "" {
		c.Map.Container = DefaultContainer
	}

	if c.Tiles.URL == "" {
		c.Tiles.URL = DefaultTileURL
	}
	if c.Tiles.ID == "" {
		c.Tiles.ID = DefaultTileID
	}
	if c.Tiles.Attribution == "" {
		c.Tiles.Attribution = DefaultAttribution
	}
	if c.Tiles.MaxZoom <= 0 {
		c.Tiles.MaxZoom = DefaultMaxZoom
	}
	if c.Tiles.TileSize <= 0 {
		c.Tiles.TileSize = DefaultTileSize
	}
	if c.Tiles.CacheDir == "" {
		c.Tiles.CacheDir = DefaultCacheDir
	}
	if c.Tiles.CacheSize <= 0 {
		c.Tiles.CacheSize = DefaultCacheSize
	}
	if c.Tiles.CacheTTL <= 0 {
		c.Tiles.CacheTTL = DefaultCacheTTL
	}

	if c.Faults.Source == "" {
		c.Faults.Source = DefaultFaultSource
	}
	if c.Faults.DataDir == "" {
		c.Faults.DataDir = DefaultDataDir
	}
	if c.Faults.Style == nil {
		s := mapview.DefaultStyle
		c.Faults.Style = &s
	}
	if c.Faults.Highlight == nil {
		s := mapview.HighlightStyle
		c.Faults.Highlight = &s
	}
}

// Validate checks value ranges after defaults were applied.
func (c *Config) Validate() error {
	if err := c.Map.Center.Validate(); err != nil {
		return fmt.Errorf("%w: map center: %v", ErrInvalid, err)
	}
	if !containerRe.MatchString(c.Map.Container) {
		return fmt.Errorf("%w: container id %q", ErrInvalid, c.Map.Container)
	}
	if c.Map.Zoom < 0 {
		return fmt.Errorf("%w: negative zoom %d", ErrInvalid, c.Map.Zoom)
	}
	if c.Map.Zoom > c.Tiles.MaxZoom {
		return fmt.Errorf("%w: zoom %d exceeds max zoom %d", ErrInvalid, c.Map.Zoom, c.Tiles.MaxZoom)
	}
	for _, p := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(c.Tiles.URL, p) {
			return fmt.Errorf("%w: tile url must contain %s", ErrInvalid, p)
		}
	}
	if c.Tiles.TileSize&(c.Tiles.TileSize-1) != 0 {
		return fmt.Errorf("%w: tile size %d is not a power of two", ErrInvalid, c.Tiles.TileSize)
	}

	for name, s := range map[string]*mapview.Style{"style": c.Faults.Style, "highlight": c.Faults.Highlight} {
		if s.Opacity < 0 || s.Opacity > 1 {
			return fmt.Errorf("%w: faults %s opacity %v out of [0, 1]", ErrInvalid, name, s.Opacity)
		}
		if s.Weight <= 0 {
			return fmt.Errorf("%w: faults %s weight must be positive", ErrInvalid, name)
		}
	}

	return nil
}
