package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelSilent is above every standard level.
const LevelSilent = slog.Level(100)

// Format selects the log output encoding.
type Format string

const (
	// FormatHuman writes LineHandler output.
	FormatHuman Format = "human"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// NewLogger creates a new slog.Logger with the line format.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLineHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewWithFormat creates a logger writing to w in the given format.
// Unknown formats fall back to FormatHuman.
func NewWithFormat(w io.Writer, format Format, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if Format(strings.ToLower(string(format))) == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return NewLogger(w, level)
}

// NewFileLogger creates a logger that appends to path, creating it if needed.
// The caller owns the returned file.
func NewFileLogger(path string, format Format, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewWithFormat(f, format, level), f, nil
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewLineHandler(io.Discard, &slog.HandlerOptions{Level: LevelSilent}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// LevelFromVerbosity converts CLI verbosity flags to a slog.Level.
// quiet wins; otherwise 0 is warn, 1 is info and anything higher is debug.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return LevelSilent
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
