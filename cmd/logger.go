package cmd

import (
	"io"
	"time"

	"github.com/illarion/cipherbox/internal/config"
	"github.com/rs/zerolog"
)

// NewLogger builds the command logger. It writes to w (normally stderr so
// stdout stays clean for sealed output) and never receives secret material.
func NewLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}

	var zl zerolog.Logger
	if cfg.LogFormat == "json" {
		zl = zerolog.New(w)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}

	return zl.Level(level).With().Timestamp().Str("component", "cipherbox").Logger()
}
