package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/woozymasta/faultmap/internal/atlas"
	"github.com/woozymasta/faultmap/internal/config"
	"github.com/woozymasta/faultmap/internal/fault"
	"github.com/woozymasta/faultmap/internal/geo"
	"github.com/woozymasta/faultmap/internal/logger"
	"github.com/woozymasta/faultmap/internal/tiles"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string  `short:"c" long:"config"       env:"CONFIG_FILE"         description:"Path to configuration file" default:"config.yaml"`
	AccessToken string  `short:"t" long:"access-token" env:"MAPBOX_ACCESS_TOKEN" description:"Tile provider access token (overrides config)"`
	Padding     float64 `short:"P" long:"padding"      env:"PADDING"             description:"Degrees added around the fault traces" default:"0.5"`
	Concurrency int     `short:"p" long:"concurrency"  env:"CONCURRENCY"         description:"Concurrency" default:"8"`
	MinZoom     int     `short:"m" long:"min-zoom"     env:"MIN_ZOOM"            description:"First zoom level to fetch" default:"0"`
	ZoomLimit   int     `short:"z" long:"zoom-limit"   env:"ZOOM_LIMIT"          description:"Last zoom level to fetch" default:"10"`
	Force       bool    `short:"f" long:"force"        description:"Force overwrite of existing tiles"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.AccessToken != "" {
		cfg.Tiles.AccessToken = opts.AccessToken
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.ZoomLimit <= 0 || opts.ZoomLimit > cfg.Tiles.MaxZoom {
		opts.ZoomLimit = cfg.Tiles.MaxZoom
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, skipped, err := atlas.NewLoader(cfg, client).Fetch(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Faults.Source).Msg("Failed to read fault traces")
	}
	for _, s := range skipped {
		log.Warn().Err(s).Msg("Skipping malformed fault record")
	}

	bound, ok := traceBound(records)
	if !ok {
		log.Fatal().Msg("No fault traces to compute the region from")
	}
	bound = geo.PadBound(bound, opts.Padding)

	m := atlas.NewMap(cfg)
	cache := tiles.NewCache(client, m.TileLayers()[0], cfg.Tiles.CacheDir,
		cfg.Tiles.TileSize, cfg.Tiles.CacheSize, cfg.Tiles.CacheTTL)

	log.Info().
		Int("faults", len(records)).
		Float64("min_lng", bound.Min.Lon()).
		Float64("min_lat", bound.Min.Lat()).
		Float64("max_lng", bound.Max.Lon()).
		Float64("max_lat", bound.Max.Lat()).
		Int("min_zoom", opts.MinZoom).
		Int("max_zoom", opts.ZoomLimit).
		Msg("Starting loader")

	stats, err := cache.Prefetch(ctx, bound, opts.MinZoom, opts.ZoomLimit, opts.Concurrency, opts.Force)
	if err != nil {
		log.Error().Err(err).Msg("Prefetch interrupted")
	}

	log.Info().
		Int64("downloaded", stats.Downloaded).
		Int64("cached", stats.Cached).
		Int64("missing", stats.Missing).
		Int64("failed", stats.Failed).
		Msg("Loader finished")
}

func traceBound(records []fault.Record) (orb.Bound, bool) {
	lines := make([][]geo.LatLng, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.Lines()...)
	}
	return geo.LineBound(lines...)
}
