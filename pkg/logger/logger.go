// Package logger constructs the process-wide slog loggers.
package logger

import (
	"log/slog"
	"os"
)

// NewDefaultLogger returns a text logger on stderr at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewLogger wraps an arbitrary handler, for composing with the
// telemetry capture handler.
func NewLogger(handler slog.Handler) *slog.Logger {
	return slog.New(handler)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
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
