package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitializeAtCreatesLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".archibus")
	require.NoError(t, InitializeAt(dir))

	require.DirExists(t, dir)
	require.DirExists(t, ExportsDir)
	require.FileExists(t, SettingsFile)
	require.Equal(t, filepath.Join(dir, "history.db"), DatabasePath)

	s, err := Load(SettingsFile)
	require.NoError(t, err)
	require.True(t, s.HistoryEnabled)
	require.Equal(t, "info", s.LogLevel)
	require.Empty(t, s.APIURL)
	require.Equal(t, ExportsDir, s.ExportDir)
}

func TestLoadJSONWithComments(t *testing.T) {
	require.NoError(t, InitializeAt(t.TempDir()))
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{
		// gateway
		"azure_api_url": "https://gateway.example.com/archibus",
		"timeout": "45s",
		"history_enabled": false,
		"log_level": "debug",
	}`)

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://gateway.example.com/archibus", s.APIURL)
	require.Equal(t, 45*time.Second, s.Timeout.Duration)
	require.False(t, s.HistoryEnabled)
	require.Equal(t, "debug", s.LogLevel)
	require.Equal(t, path, s.Source)
}

func TestLoadYAML(t *testing.T) {
	require.NoError(t, InitializeAt(t.TempDir()))
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "azure_api_url: http://localhost:8080/archibus\ntimeout: 10\nexport_dir: /tmp/archibus-out\ntls:\n  insecure_skip_verify: true\n")

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/archibus", s.APIURL)
	require.Equal(t, 10*time.Second, s.Timeout.Duration)
	require.Equal(t, "/tmp/archibus-out", s.ExportDir)
	require.True(t, s.HistoryEnabled)
	require.NotNil(t, s.TLS)
	require.True(t, s.TLS.InsecureSkipVerify)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.True(t, s.HistoryEnabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad json":      `{"azure_api_url": `,
		"bad timeout":   `{"timeout": "soon"}`,
		"bad log level": `{"log_level": "chatty"}`,
		"bad endpoint":  `{"azure_api_url": "gateway.example.com"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			writeFile(t, path, content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	s := Settings{APIURL: "https://file.example.com"}

	t.Setenv(EnvAPIURL, "https://env.example.com")
	s.ApplyOverrides("")
	require.Equal(t, "https://env.example.com", s.APIURL)

	s.ApplyOverrides("https://flag.example.com")
	require.Equal(t, "https://flag.example.com", s.APIURL)
}

func TestRequireEndpoint(t *testing.T) {
	require.Error(t, Settings{Source: "config.json"}.RequireEndpoint())
	require.NoError(t, Settings{APIURL: "https://gateway.example.com"}.RequireEndpoint())
}

func TestFindSettingsFile(t *testing.T) {
	require.NoError(t, InitializeAt(t.TempDir()))
	require.Equal(t, "/etc/archibus.json", FindSettingsFile("/etc/archibus.json"))

	work := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(prevDir) })
	require.Equal(t, SettingsFile, FindSettingsFile(""))

	writeFile(t, filepath.Join(work, "config.yaml"), "log_level: warn\n")
	got := FindSettingsFile("")
	require.Equal(t, "config.yaml", filepath.Base(got))
}

func TestWatchDeliversReload(t *testing.T) {
	require.NoError(t, InitializeAt(t.TempDir()))
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"azure_api_url": "http://localhost:1/a"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads, err := Watch(ctx, path, "")
	require.NoError(t, err)

	writeFile(t, path, `{"azure_api_url": "http://localhost:2/b"}`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reloads:
			// a write may be observed before the content is complete
			if r.Err == nil && r.Settings.APIURL == "http://localhost:2/b" {
				return
			}
		case <-deadline:
			t.Fatal("no reload delivered")
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
}
