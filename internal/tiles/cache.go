// Package tiles proxies base map tiles from the remote provider and keeps
// them cached on disk as WebP and in memory.
package tiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/woozymasta/faultmap/internal/mapview"

	"github.com/chai2010/webp"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotFound is returned for tiles outside the pyramid or missing upstream.
var ErrNotFound = errors.New("tile not found")

// Coordinate represents a specific tile.
type Coordinate struct {
	Z, X, Y int
}

// Valid reports whether the coordinate lies inside the pyramid up to maxZoom.
func (c Coordinate) Valid(maxZoom int) bool {
	if c.Z < 0 || c.Z > maxZoom {
		return false
	}
	n := 1 << c.Z
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// Cache fetches tiles from the upstream tile layer and stores them re-encoded as WebP.
type Cache struct {
	client   *http.Client
	layer    *mapview.TileLayer
	mem      *expirable.LRU[Coordinate, []byte]
	dir      string
	tileSize int
	quality  float32
}

// NewCache creates a tile cache rooted at dir. entries and ttl bound the in-memory layer.
func NewCache(client *http.Client, layer *mapview.TileLayer, dir string, tileSize, entries int, ttl time.Duration) *Cache {
	if client == nil {
		client = http.DefaultClient
	}

	return &Cache{
		client:   client,
		layer:    layer,
		dir:      dir,
		tileSize: tileSize,
		quality:  80,
		mem:      expirable.NewLRU[Coordinate, []byte](entries, nil, ttl),
	}
}

// MaxZoom returns the deepest zoom level the upstream layer serves.
func (c *Cache) MaxZoom() int {
	return c.layer.MaxZoom
}

// Get returns the WebP encoded tile, downloading it on a cache miss.
func (c *Cache) Get(ctx context.Context, coord Coordinate) ([]byte, error) {
	if !coord.Valid(c.layer.MaxZoom) {
		return nil, ErrNotFound
	}

	if data, ok := c.mem.Get(coord); ok {
		return data, nil
	}

	if data, err := os.ReadFile(c.path(coord)); err == nil && len(data) > 0 {
		c.mem.Add(coord, data)
		return data, nil
	}

	data, err := c.download(ctx, coord)
	if err != nil {
		return nil, err
	}

	if err := c.store(coord, data); err != nil {
		log.Warn().Err(err).Str("tile", coord.String()).Msg("Failed to write tile to disk cache")
	}
	c.mem.Add(coord, data)

	return data, nil
}

// Cached reports whether the tile is already on disk.
func (c *Cache) Cached(coord Coordinate) bool {
	info, err := os.Stat(c.path(coord))
	return err == nil && info.Size() > 0
}

func (c *Cache) path(coord Coordinate) string {
	return filepath.Join(
		c.dir,
		c.layer.ID,
		strconv.Itoa(coord.Z),
		strconv.Itoa(coord.X),
		strconv.Itoa(coord.Y)+".webp")
}

func (c *Cache) download(ctx context.Context, coord Coordinate) ([]byte, error) {
	url := c.layer.URL(coord.Z, coord.X, coord.Y)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile %s: status code %d", coord, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tile %s: decode failed: %w", coord, err)
	}

	// Filter out empty/1px tiles often returned by map servers for OOB areas
	if img.Bounds().Dx() <= 1 {
		return nil, ErrNotFound
	}

	img = c.normalize(img)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: c.quality}); err != nil {
		return nil, err
	}

	log.Trace().
		Str("tile", coord.String()).
		Str("format", format).
		Int("bytes", buf.Len()).
		Msg("Tile downloaded")

	return buf.Bytes(), nil
}

// normalize rescales retina or odd sized tiles to the configured tile size.
func (c *Cache) normalize(img image.Image) image.Image {
	b := img.Bounds()
	if c.tileSize <= 0 || (b.Dx() == c.tileSize && b.Dy() == c.tileSize) {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.tileSize, c.tileSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// store writes the tile atomically so concurrent readers never see a partial file.
func (c *Cache) store(coord Coordinate, data []byte) error {
	outPath := c.path(coord)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".tile-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), outPath)
}

// EmptyTile returns a fully transparent WebP tile of the given size.
func EmptyTile(size int) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
