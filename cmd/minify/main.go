package main

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/faultmap/assets"
	"github.com/woozymasta/faultmap/internal/config"
	"github.com/woozymasta/faultmap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Out        string `short:"o" long:"out"       description:"Output directory for the static page" default:"public"`
	ConfigFile string `short:"c" long:"config"    description:"Take the map container id from this configuration file"`
	Container  string `long:"container"           description:"Map container element id" default:"mapid"`
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

	container := opts.Container
	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		container = cfg.Map.Container
	}

	m := assets.NewMinifier()

	page, err := assets.Index(m, container)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build page")
	}
	favicon, err := assets.Favicon(m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build favicon")
	}

	if err := os.MkdirAll(opts.Out, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", opts.Out).Msg("Failed to create output directory")
	}

	for name, data := range map[string][]byte{"index.html": page, "favicon.svg": favicon} {
		out := filepath.Join(opts.Out, name)
		if err := os.WriteFile(out, data, 0644); err != nil {
			log.Fatal().Err(err).Str("file", out).Msg("Failed to write asset")
		}
		log.Info().Str("file", out).Int("bytes", len(data)).Msg("Asset written")
	}

	log.Info().Str("container", container).Msg("Minify done")
}
