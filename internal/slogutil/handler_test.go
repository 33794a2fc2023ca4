package slogutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("Extracted module", "path", "src/main.zig", "functions", 3)

	output := buf.String()

	// TIMESTAMP [level] Message | key=value
	for _, want := range []string{"[info]", "Extracted module", " | ", "path=src/main.zig", "functions=3"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("expected trailing newline, got: %q", output)
	}
}

func TestLineHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("plain")

	if strings.Contains(buf.String(), "|") {
		t.Errorf("expected no separator without attributes, got: %s", buf.String())
	}
}

func TestLineHandler_Levels(t *testing.T) {
	tests := []struct {
		logFunc  func(*slog.Logger)
		expected string
	}{
		{func(l *slog.Logger) { l.Debug("debug") }, "[debug]"},
		{func(l *slog.Logger) { l.Info("info") }, "[info]"},
		{func(l *slog.Logger) { l.Warn("warn") }, "[warn]"},
		{func(l *slog.Logger) { l.Error("error") }, "[error]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewLogger(&buf, slog.LevelDebug))

			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("expected %s in output, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestLineHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Errorf("warn message should be logged, got: %s", output)
	}
}

func TestLineHandler_QuotesValues(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("msg", "reason", "file not found", "empty", "")

	output := buf.String()
	if !strings.Contains(output, `reason="file not found"`) {
		t.Errorf("expected quoted value, got: %s", output)
	}
	if !strings.Contains(output, `empty=""`) {
		t.Errorf("expected quoted empty value, got: %s", output)
	}
}

func TestLineHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).
		With("component", "collector").
		WithGroup("file")

	logger.Info("parsed", "path", "a.zig", slog.Group("counts", "fns", 2))

	output := buf.String()
	for _, want := range []string{"component=collector", "file.path=a.zig", "file.counts.fns=2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestNewWithFormat_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewWithFormat(&buf, FormatJSON, slog.LevelInfo).Info("indexed", "modules", 4)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "indexed" {
		t.Errorf("msg = %v, want indexed", record["msg"])
	}
	if record["modules"] != float64(4) {
		t.Errorf("modules = %v, want 4", record["modules"])
	}
}

func TestNewWithFormat_UnknownFallsBackToLine(t *testing.T) {
	var buf bytes.Buffer
	NewWithFormat(&buf, Format("xml"), slog.LevelInfo).Info("hello")

	if !strings.Contains(buf.String(), "[info] hello") {
		t.Errorf("expected line format, got: %s", buf.String())
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LevelFromString(tt.input); got != tt.expected {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		expected  slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{5, false, slog.LevelDebug},
		{2, true, LevelSilent},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity, tt.quiet); got != tt.expected {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.expected)
		}
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("discard logger should not be enabled at error level")
	}
	logger.Error("nothing")
}
