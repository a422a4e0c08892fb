package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := NewHandler(&buf, slog.LevelInfo, "json")
		if err != nil {
			t.Fatalf("NewHandler failed: %v", err)
		}
		logger := slog.New(h)
		logger.Debug("hidden")
		logger.Info("Meal recorded", "meal_id", "m1")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if entry["msg"] != "Meal recorded" || entry["meal_id"] != "m1" {
			t.Errorf("unexpected entry: %v", entry)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := NewHandler(&buf, slog.LevelDebug, "text")
		if err != nil {
			t.Fatalf("NewHandler failed: %v", err)
		}
		slog.New(h).Debug("Recording meal", "payer", "Alice")
		if !strings.Contains(buf.String(), "Recording meal") || !strings.Contains(buf.String(), "Alice") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := NewHandler(&bytes.Buffer{}, slog.LevelInfo, "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
