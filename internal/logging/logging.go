// Package logging holds the process-wide logr logger. It discards everything
// until Setup or SetLogger is called, so library code can log unconditionally.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

var (
	mu     sync.RWMutex
	global logr.Logger
)

// SetLogger replaces the global logger
func SetLogger(l logr.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// Logger returns the global logger, or a discarding one when none is set
func Logger() logr.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global.IsZero() {
		return logr.Discard()
	}
	return global
}

// ParseLevel maps debug, info, warn and error to slog levels
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

// New builds a logger writing slog text records to w.
// logr V(1) messages are emitted only at debug level.
func New(w io.Writer, level slog.Level) logr.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return logr.FromSlogHandler(handler)
}

// Setup opens the log file in append mode and installs it as the global logger.
// The caller closes the returned file on exit.
func Setup(path, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	SetLogger(New(f, lvl).WithName("archibus"))
	return f, nil
}
