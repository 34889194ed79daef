// Package logging builds the slog handles handed to the services.
// There is no package-level logger state: callers construct a logger
// once and inject it.
package logging

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LevelFromString parses a log level name or a numeric offset.
// Unknown names fall back to info.
func LevelFromString(s string) slog.Level {
	if numericLevel, err := strconv.Atoi(s); err == nil {
		return boundedLevel(numericLevel)
	}
	switch strings.ToLower(s) {
	case "error":
		return slog.LevelError
	case "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

func boundedLevel(numericLevel int) slog.Level {
	if numericLevel < int(slog.LevelDebug) {
		return slog.LevelDebug
	}
	if numericLevel > int(slog.LevelError) {
		return slog.LevelError
	}
	return slog.Level(numericLevel)
}
