// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger holds logging options shared by all commands.
type Logger struct {
	Level      string `long:"log-level"       env:"LOG_LEVEL"       description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format     string `long:"log-format"      env:"LOG_FORMAT"      description:"Log output format" choice:"console" choice:"json" default:"console"`
	File       string `long:"log-file"        env:"LOG_FILE"        description:"Write logs to file instead of stderr"`
	MaxSize    int    `long:"log-max-size"    env:"LOG_MAX_SIZE"    description:"Max log file size in MB before rotation" default:"64"`
	MaxBackups int    `long:"log-max-backups" env:"LOG_MAX_BACKUPS" description:"Rotated log files to keep" default:"3"`
}

// Setup applies the options to the global logger.
func (l Logger) Setup() {
	zerolog.SetGlobalLevel(parseLevel(l.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(l.writer()).With().Timestamp().Logger()
}

func (l Logger) writer() io.Writer {
	var out io.Writer = os.Stderr

	if l.File != "" {
		out = &lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    l.MaxSize, // MB
			MaxBackups: l.MaxBackups,
			Compress:   true,
		}
	}

	if strings.EqualFold(l.Format, "json") {
		return out
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		NoColor:    l.File != "",
	}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}

	return lvl
}
