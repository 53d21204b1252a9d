package tiles

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/woozymasta/faultmap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes a prefetch run.
type Stats struct {
	Downloaded int64
	Cached     int64
	Missing    int64
	Failed     int64
}

// Prefetch downloads every tile covering b for zoom levels minZoom..maxZoom.
// Tiles already on disk are skipped unless force is set. Individual tile
// failures are counted, not returned; only context cancellation aborts.
func (c *Cache) Prefetch(ctx context.Context, b orb.Bound, minZoom, maxZoom, concurrency int, force bool) (Stats, error) {
	if maxZoom > c.layer.MaxZoom {
		maxZoom = c.layer.MaxZoom
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var downloaded, cached, missing, failed atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for z := minZoom; z <= maxZoom; z++ {
		minX, minY, maxX, maxY := geo.TileRange(b, z)

		log.Debug().
			Int("zoom", z).
			Int("count", (maxX-minX+1)*(maxY-minY+1)).
			Msg("Processing zoom level")

		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				coord := Coordinate{Z: z, X: x, Y: y}

				if ctx.Err() != nil {
					break
				}

				eg.Go(func() error {
					if !force && c.Cached(coord) {
						cached.Add(1)
						return nil
					}
					if force {
						c.mem.Remove(coord)
					}

					data, err := c.download(ctx, coord)
					switch {
					case errors.Is(err, ErrNotFound):
						missing.Add(1)
						return nil
					case ctx.Err() != nil:
						return ctx.Err()
					case err != nil:
						failed.Add(1)
						log.Trace().Err(err).Str("tile", coord.String()).Msg("Failed to download tile")
						return nil
					}

					if err := c.store(coord, data); err != nil {
						failed.Add(1)
						log.Error().Err(err).Str("tile", coord.String()).Msg("Failed to write tile")
						return nil
					}
					downloaded.Add(1)
					return nil
				})
			}
		}
	}

	err := eg.Wait()

	return Stats{
		Downloaded: downloaded.Load(),
		Cached:     cached.Load(),
		Missing:    missing.Load(),
		Failed:     failed.Load(),
	}, err
}
