// Package logger provides structured logging setup for rigpilot.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rigpilot/rigpilot/internal/config"
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON with a "service" attribute on every record.
//
// The stdio transport owns stdout for protocol frames, so callers pass
// os.Stderr there and os.Stdout for the HTTP transport.
func New(cfg config.Logging, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler).With("service", cfg.Service)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
