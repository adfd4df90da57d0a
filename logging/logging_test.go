package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tt := []struct {
		in      string
		want    slog.Level
		wantErr error
	}{
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " warn ", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", want: slog.LevelInfo, wantErr: ErrInvalidLevel},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("unexpected error: want %v got %v", tc.wantErr, err)
			}
			if got != tc.want {
				t.Fatalf("level mismatch: want %v got %v", tc.want, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := New(Config{Format: FormatJSON, Writer: &buf})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}

		log.Debug("hidden")
		log.Error("customer: lookup failed", "error", "boom")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v", err)
		}
		if entry["msg"] != "customer: lookup failed" || entry["error"] != "boom" {
			t.Fatalf("unexpected entry %v", entry)
		}
	})

	t.Run("text verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := New(Config{Level: "error", Verbose: true, Writer: &buf, NoColor: true})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}

		log.Debug("visible", "key", "value")
		if !strings.Contains(buf.String(), "visible") || !strings.Contains(buf.String(), "key=value") {
			t.Fatalf("expected debug line, got %q", buf.String())
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		if _, err := New(Config{Format: "xml"}); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		if _, err := New(Config{Level: "loud"}); !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("expected ErrInvalidLevel, got %v", err)
		}
	})
}
