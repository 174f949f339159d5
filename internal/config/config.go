package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// BaseDir is the global configuration directory (~/.archibus)
	BaseDir string

	// SettingsFile is the default settings file
	SettingsFile string

	// DatabasePath is the SQLite database holding submission history
	DatabasePath string

	// LogFile receives the application log
	LogFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// ExportsDir is the default destination of data.csv, data.xlsx and data.pdf
	ExportsDir string
)

const defaultSettings = `{
  // Gateway endpoint receiving the building/floor query
  "azure_api_url": "",

  // Client-side timeout such as "30s"; empty waits forever
  "timeout": "",

  "history_enabled": true,
  "log_level": "info"
}
`

// Initialize sets up ~/.archibus and writes a commented settings file on first run
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".archibus"))
}

// InitializeAt is Initialize with an explicit base directory
func InitializeAt(dir string) error {
	BaseDir = dir
	SettingsFile = filepath.Join(BaseDir, "config.json")
	DatabasePath = filepath.Join(BaseDir, "history.db")
	LogFile = filepath.Join(BaseDir, "archibus.log")
	KeybindsFile = filepath.Join(BaseDir, "keybinds.json")
	ExportsDir = filepath.Join(BaseDir, "exports")

	for _, d := range []string{BaseDir, ExportsDir} {
		if err := os.MkdirAll(d, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(SettingsFile, []byte(defaultSettings), FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// ExpandHome expands a leading ~/ to the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// FindSettingsFile picks the settings file: the explicit path, then
// ./config.json, ./config.yaml, ./config.yml, then the global file.
func FindSettingsFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, local := range []string{"config.json", "config.yaml", "config.yml"} {
		if _, err := os.Stat(local); err == nil {
			abs, err := filepath.Abs(local)
			if err != nil {
				return local
			}
			return abs
		}
	}
	return SettingsFile
}
