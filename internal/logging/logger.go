// Package logging builds the application's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"taskdeck/internal/config"
)

// New returns a logger writing to w.
//
// The local env writes human-readable console lines; dev and prod write JSON.
// debug forces the debug level regardless of settings.
func New(w io.Writer, s config.Settings, debug bool) (zerolog.Logger, error) {
	zerolog.TimestampFieldName = "timestamp"

	level := zerolog.WarnLevel
	if s.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(s.LogLevel)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level: %s", s.LogLevel)
		}
		level = lvl
	}

	switch s.Env {
	case config.EnvLocal:
		cw := zerolog.NewConsoleWriter()
		cw.TimeFormat = time.DateTime
		cw.Out = w
		w = cw
		if s.LogLevel == "" {
			level = zerolog.TraceLevel
		}
	case config.EnvDev:
		if s.LogLevel == "" {
			level = zerolog.DebugLevel
		}
	case config.EnvProd, "":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", s.Env)
	}

	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", config.AppName).
		Logger(), nil
}
