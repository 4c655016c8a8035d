package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"off", levelOff, true},
		{"none", levelOff, true},
		{"trace", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseLogLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseLogLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("info", &buf, false)

	logger.Debug("hidden")
	logger.Info("connected", "network", "unix")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "connected" || rec["network"] != "unix" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	newLogger("debug", &buf, true).Debug("sending command", "command", "show cli level")

	if !strings.Contains(buf.String(), `command="show cli level"`) {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestNewLoggerOff(t *testing.T) {
	var buf bytes.Buffer
	newLogger("off", &buf, false).Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("off logger wrote %q", buf.String())
	}
}
