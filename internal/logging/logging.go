// Package logging builds the process slog logger from flags and environment.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLevel  = "NEOPIR_LOG_LEVEL"
	EnvFormat = "NEOPIR_LOG_FORMAT"
)

// Config configures the logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
}

// New creates a structured logger. Unknown levels fall back to info and
// unknown formats to text. Output defaults to stderr so it never mixes with
// command output.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// FromEnv fills unset fields of cfg from NEOPIR_LOG_LEVEL and NEOPIR_LOG_FORMAT.
func FromEnv(cfg Config) Config {
	if cfg.Level == "" {
		cfg.Level = os.Getenv(EnvLevel)
	}
	if cfg.Format == "" {
		cfg.Format = os.Getenv(EnvFormat)
	}
	return cfg
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
