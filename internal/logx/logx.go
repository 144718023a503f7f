// Package logx builds the slog loggers used by the binaries.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable consulted by FromEnv.
const EnvLevel = "LOG_LEVEL"

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog.Level.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FromEnv returns a stderr logger whose level comes from LOG_LEVEL,
// falling back to fallback when the variable is unset or invalid.
func FromEnv(fallback string) *slog.Logger {
	raw := os.Getenv(EnvLevel)
	if raw == "" {
		raw = fallback
	}
	level, err := ParseLevel(raw)
	if err != nil {
		level = slog.LevelInfo
	}
	return New(os.Stderr, level)
}
