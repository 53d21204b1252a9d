// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/faultmap/internal/geo"
	"github.com/woozymasta/faultmap/internal/mapview"
	"github.com/woozymasta/faultmap/internal/tiles"

	"github.com/rs/zerolog/log"
)

const etagCap = 64

// ProxyTileURL is the tile template browsers use when tiles go through the proxy.
const ProxyTileURL = "/tiles/{z}/{x}/{y}"

// MapResponse is the view description consumed by the page.
type MapResponse struct {
	Container string        `json:"container"`
	Center    geo.LatLng    `json:"center"`
	Zoom      int           `json:"zoom"`
	Tiles     TileResponse  `json:"tiles"`
	Style     mapview.Style `json:"style"`
	Highlight mapview.Style `json:"highlight"`
}

// TileResponse describes the base tile layer for Leaflet.
type TileResponse struct {
	URL         string `json:"url"`
	ID          string `json:"id,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	Attribution string `json:"attribution,omitempty"`
	MaxZoom     int    `json:"maxZoom"`
	TileSize    int    `json:"tileSize"`
}

// HandleMap serves the map view, base layer and fault styles as JSON.
func (s *ServerContext) HandleMap(w http.ResponseWriter, r *http.Request) {
	resp := MapResponse{
		Container: s.Map.Container,
		Center:    s.Map.Center,
		Zoom:      s.Map.Zoom,
		Style:     *s.Config.Faults.Style,
		Highlight: *s.Config.Faults.Highlight,
	}

	if layers := s.Map.TileLayers(); len(layers) > 0 {
		tl := layers[0]
		resp.Tiles = TileResponse{
			URL:         tl.URLTemplate,
			ID:          tl.ID,
			Attribution: tl.Attribution,
			MaxZoom:     tl.MaxZoom,
			TileSize:    s.Config.Tiles.TileSize,
		}

		// the token only leaves the server when the proxy is off
		if s.Tiles != nil {
			resp.Tiles.URL = ProxyTileURL
		} else {
			resp.Tiles.AccessToken = tl.AccessToken
		}
	}

	writeJSON(w, http.StatusOK, "application/json", resp)
}

// HandleFaults serves the fault layer as a GeoJSON FeatureCollection.
func (s *ServerContext) HandleFaults(w http.ResponseWriter, r *http.Request) {
	group := s.Faults()
	if group == nil && s.failed.Load() {
		writeJSON(w, http.StatusBadGateway, "application/json",
			map[string]string{"error": "fault layer unavailable"})
		return
	}
	if group == nil {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, "application/json",
			map[string]string{"error": "fault layer not loaded"})
		return
	}

	w.Header().Set("Cache-Control", "public, no-cache")
	writeJSON(w, http.StatusOK, "application/geo+json", group.FeatureCollection())
}

// HandleTile serves /tiles/{z}/{x}/{y} through the tile cache.
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	if s.Tiles == nil {
		http.NotFound(w, r)
		return
	}

	// parts: tiles, z, x, y
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	var nums [3]int
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(strings.TrimSuffix(p, filepath.Ext(p)))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		nums[i] = n
	}
	coord := tiles.Coordinate{Z: nums[0], X: nums[1], Y: nums[2]}

	data, err := s.Tiles.Get(r.Context(), coord)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "image/webp")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(data)

	case errors.Is(err, tiles.ErrNotFound) && s.EmptyTile != nil:
		// cache transparent tile
		w.Header().Set("Content-Type", "image/webp")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(s.EmptyTile)

	case errors.Is(err, tiles.ErrNotFound):
		http.NotFound(w, r)

	default:
		log.Warn().Err(err).Str("tile", coord.String()).Msg("Tile upstream failed")
		http.Error(w, "tile upstream failed", http.StatusBadGateway)
	}
}

// HandleData serves raw feed files from the data directory.
func (s *ServerContext) HandleData(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/data/")
	clean := filepath.Clean("/" + rel)
	if rel == "" || strings.HasSuffix(rel, "/") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.Config.Faults.DataDir, filepath.FromSlash(clean))

	contentType := ""
	if strings.EqualFold(filepath.Ext(path), ".json") {
		contentType = "application/json"
	}

	if !s.serveFile(w, r, path, contentType) {
		http.NotFound(w, r)
	}
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/favicon.svg" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v interface{}) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
