package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/faultmap/internal/atlas"
	"github.com/woozymasta/faultmap/internal/config"
	"github.com/woozymasta/faultmap/internal/logger"
	"github.com/woozymasta/faultmap/internal/server"
	"github.com/woozymasta/faultmap/internal/tiles"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"         description:"Path to configuration file" default:"config.yaml"`
	Addr        string `short:"a" long:"addr"         env:"LISTEN_ADDRESS"      description:"Address to listen on"       default:"0.0.0.0"`
	AccessToken string `short:"t" long:"access-token" env:"MAPBOX_ACCESS_TOKEN" description:"Tile provider access token (overrides config)"`
	Source      string `short:"s" long:"source"       env:"FAULTS_SOURCE"       description:"Fault traces feed path or URL (overrides config)"`
	Port        int    `short:"p" long:"port"         env:"LISTEN_PORT"         description:"Port to listen on"          default:"8080"`
	DirectTiles bool   `short:"d" long:"direct-tiles" env:"DIRECT_TILES"        description:"Let browsers load tiles from the provider directly"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.AccessToken != "" {
		cfg.Tiles.AccessToken = opts.AccessToken
	}
	if opts.Source != "" {
		cfg.Faults.Source = opts.Source
	}
	if opts.DirectTiles {
		cfg.Tiles.Direct = true
	}

	client := &http.Client{Timeout: 15 * time.Second}

	m := atlas.NewMap(cfg)

	var cache *tiles.Cache
	if !cfg.Tiles.Direct {
		cache = tiles.NewCache(client, m.TileLayers()[0], cfg.Tiles.CacheDir,
			cfg.Tiles.TileSize, cfg.Tiles.CacheSize, cfg.Tiles.CacheTTL)
	}

	srvCtx, err := server.NewServerContext(cfg, m, cache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build page")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fault layer loads in the background, the page polls /api/faults until it is ready
	go func() {
		res := <-atlas.NewLoader(cfg, client).LoadAsync(ctx, m)
		if res.Err != nil {
			srvCtx.FaultsFailed()
			return
		}
		srvCtx.SetFaults(res.Group)
	}()

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", listenAddr).
		Str("source", cfg.Faults.Source).
		Bool("tile_proxy", cache != nil).
		Msg("Web server started")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Web server stopped")
}
