package main

import (
	"io"
	"log/slog"
	"strings"
)

// levelOff is above every level slog emits.
const levelOff = slog.Level(100)

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "off", "none":
		return levelOff, true
	default:
		return 0, false
	}
}

// newLogger creates the structured logger for one invocation. Terminals get
// slog.TextHandler for humans; pipes get slog.JSONHandler for machines.
func newLogger(level string, w io.Writer, terminal bool) *slog.Logger {
	lvl, ok := parseLogLevel(level)
	if !ok {
		lvl = slog.LevelWarn
	}
	if lvl == levelOff {
		return slog.New(slog.DiscardHandler)
	}

	options := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
