package logging

import (
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel applies when the configured level string is unrecognized.
// Falling back to debug keeps misconfiguration visible in the output
// instead of silently hiding records.
const DefaultLevel = slog.LevelDebug

// New builds the process-wide logger: text records on stdout, threshold
// taken from the config level string. Components derive their own loggers
// via With("component", ...).
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// ParseLevel maps a config level string onto a slog.Level, accepting the
// usual spellings case-insensitively.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	default:
		return DefaultLevel
	}
}
