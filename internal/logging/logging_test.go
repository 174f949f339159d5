package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
)

func TestLoggerDefaultsToDiscard(t *testing.T) {
	SetLogger(logr.Logger{})
	if Logger().Enabled() {
		t.Error("default logger should discard")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewVerbosity(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)

	l.Info("visible", "k", "v")
	l.V(1).Info("hidden")

	out := buf.String()
	if !strings.Contains(out, "visible") || !strings.Contains(out, "k=v") {
		t.Errorf("info record missing: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("V(1) record written at info level: %q", out)
	}

	buf.Reset()
	New(&buf, slog.LevelDebug).V(1).Info("debug line")
	if !strings.Contains(buf.String(), "debug line") {
		t.Errorf("V(1) record missing at debug level: %q", buf.String())
	}
}

func TestSetupWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "archibus.log")

	closer, err := Setup(path, "info")
	require.NoError(t, err)
	t.Cleanup(func() { SetLogger(logr.Logger{}) })

	Logger().Info("submission settled", "status", 200)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "submission settled")
	require.Contains(t, string(data), "status=200")
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "a.log"), "loud")
	require.Error(t, err)
}
