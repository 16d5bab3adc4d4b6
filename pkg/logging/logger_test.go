package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewAddsComponentFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New("trap", slog.LevelInfo, &buf)

	logger.Info("activated")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["component"] != "trap" {
		t.Errorf("component = %v, want trap", lines[0]["component"])
	}
	if lines[0]["system"] != "tabstop" {
		t.Errorf("system = %v, want tabstop", lines[0]["system"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New("layer", slog.LevelInfo, &buf)

	logger.LayerPushed("Dialog", "panel", 1)
	if buf.Len() != 0 {
		t.Errorf("debug event should be filtered at info level, got %q", buf.String())
	}

	logger.NoFocusableElement("panel")
	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", lines[0]["level"])
	}
	if lines[0]["container"] != "panel" {
		t.Errorf("container = %v, want panel", lines[0]["container"])
	}
}

func TestWithSessionAndLayer(t *testing.T) {
	var buf bytes.Buffer
	logger := New("overlay", slog.LevelDebug, &buf).
		WithSession("abc").
		WithLayer("Dialog", 2)

	logger.Debug("escape")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["session_id"] != "abc" {
		t.Errorf("session_id = %v", lines[0]["session_id"])
	}
	if lines[0]["layer_kind"] != "Dialog" {
		t.Errorf("layer_kind = %v", lines[0]["layer_kind"])
	}
	if lines[0]["layer_order"] != float64(2) {
		t.Errorf("layer_order = %v", lines[0]["layer_order"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic with any level.
	l := Nop()
	l.Debug("x")
	l.Error("y")
	l.Component("sub").Warn("z")
}
