package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"warn", "warn", slog.LevelWarn},
		{"uppercase TRACE", "TRACE", LevelTrace},
		{"padded", "  debug ", slog.LevelDebug},
		{"unknown defaults to info", "verbose", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTraceLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantTrace bool
	}{
		{"info filters trace", "info", false},
		{"debug filters trace", "debug", false},
		{"trace passes trace", "trace", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			Trace(logger, "ignored event", "phase", "Waiting")
			got := strings.Contains(buf.String(), "ignored event")
			if got != tt.wantTrace {
				t.Fatalf("trace logged = %v, want %v (output %q)", got, tt.wantTrace, buf.String())
			}
			if got && !strings.Contains(buf.String(), "level=TRACE") {
				t.Fatalf("expected TRACE level label, got %q", buf.String())
			}
		})
	}
}

func TestNilSafety(t *testing.T) {
	Trace(nil, "nothing")
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
}
