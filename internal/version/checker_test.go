package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name     string
		latest   string
		current  string
		expected bool
	}{
		{"same version", "0.1.0", "0.1.0", false},
		{"patch upgrade", "0.1.1", "0.1.0", true},
		{"patch downgrade", "0.1.0", "0.1.1", false},
		{"minor upgrade", "0.2.0", "0.1.9", true},
		{"major upgrade", "1.0.0", "0.9.9", true},
		{"multi-digit patch", "0.0.100", "0.0.99", true},
		{"different lengths", "1.0", "0.9.28", true},
		{"shorter current", "1.0.1", "1.0", true},
		{"dev build of the same release", "0.1.0", "0.1.0-dev", false},
		{"build metadata", "0.1.1+build5", "0.1.0", true},
		{"both pre-release", "0.2.0-beta", "0.2.0-alpha", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNewerVersion(tt.latest, tt.current); got != tt.expected {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.expected)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"tag_name":"v0.3.0","html_url":"https://example.com/r/0.3.0"}`))
	}))
	defer srv.Close()

	c := &Checker{URL: srv.URL, Client: srv.Client()}
	update, err := c.Check(context.Background(), "v0.2.5")
	require.NoError(t, err)

	want := Update{Current: "0.2.5", Latest: "0.3.0", URL: "https://example.com/r/0.3.0", Available: true}
	if update != want {
		t.Errorf("Check() = %+v, want %+v", update, want)
	}
	if gotAgent != UserAgent() {
		t.Errorf("User-Agent = %q, want %q", gotAgent, UserAgent())
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"rate limited", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := &Checker{URL: srv.URL, Client: srv.Client()}
			_, err := c.Check(context.Background(), "0.1.0")
			require.Error(t, err)
		})
	}
}
