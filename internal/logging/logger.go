// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const (
	formatJSON    = "json"
	formatConsole = "console"
)

// Config selects how entries are written.
type Config struct {
	// Level is trace, debug, info, warn, error, fatal, panic or disabled.
	// Unknown values log at info.
	Level string

	// Format is json or console.
	Format string

	Caller    bool
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// Service and Version are stamped on every entry when set.
	Service string
	Version string
}

// DefaultConfig is what the package logs with before Init is called.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    formatJSON,
		Timestamp: true,
		Output:    os.Stderr,
		Service:   "rinkside",
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // packages log during startup, before main calls Init
func init() {
	Init(DefaultConfig())
}

// Init builds a logger from cfg and installs it as the package logger. The
// zerolog global level follows cfg.Level.
func Init(cfg Config) {
	l := New(cfg)
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	global.Store(&l)
}

// New builds a logger from cfg without installing it.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, formatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zc := zerolog.New(out).Level(parseLevel(cfg.Level)).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	if cfg.Service != "" {
		zc = zc.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		zc = zc.Str("version", cfg.Version)
	}
	return zc.Logger()
}

// parseLevel maps a configured level name onto zerolog. "warning" is
// accepted for warn; empty and unknown names mean info.
func parseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns a copy of the package logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// SetLogger installs l as the package logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout zerolog
func SetLogger(l zerolog.Logger) {
	global.Store(&l)
}

// Debug starts a debug entry on the package logger.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info entry.
//
//	logging.Info().Str("season_id", id).Msg("Season activated")
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn entry.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error entry.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal entry; the process exits once it is written.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// WithComponent returns a child of the package logger tagged with component.
// The child keeps the logger it was created from, so call it after Init.
//
//	log := logging.WithComponent("playoffs")
func WithComponent(component string) zerolog.Logger {
	return global.Load().With().Str("component", component).Logger()
}

// NewTestLogger writes JSON entries with timestamps to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return New(Config{Level: "trace", Format: formatJSON, Output: w, Timestamp: true})
}
