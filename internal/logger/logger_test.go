package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"DEBUG": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"":      zerolog.InfoLevel,
		"bogus": zerolog.InfoLevel,
	}

	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWriter(t *testing.T) {
	file := filepath.Join(t.TempDir(), "faultmap.log")

	w := Logger{Format: "json", File: file, MaxSize: 1}.writer()
	lj, ok := w.(*lumberjack.Logger)
	if !ok {
		t.Fatalf("json file writer is %T", w)
	}
	if lj.Filename != file || lj.MaxSize != 1 {
		t.Errorf("lumberjack = %+v", lj)
	}

	if _, ok := (Logger{Format: "console"}).writer().(zerolog.ConsoleWriter); !ok {
		t.Error("console format must use ConsoleWriter")
	}
}

func TestSetup(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	Logger{Level: "error", Format: "json"}.Setup()
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("global level = %v", zerolog.GlobalLevel())
	}
	log.Error().Msg("Logger configured")
}
