package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/logging"
)

// EnvAPIURL overrides azure_api_url from the settings file
const EnvAPIURL = "ARCHIBUS_API_URL"

// Duration accepts "30s" style strings or a number of seconds
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	if d.Duration == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Duration) set(v any) error {
	switch val := v.(type) {
	case nil:
		d.Duration = 0
	case float64:
		d.Duration = time.Duration(val * float64(time.Second))
	case int:
		d.Duration = time.Duration(val) * time.Second
	case string:
		if val == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	if d.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	return nil
}

// Settings is the user configuration
type Settings struct {
	APIURL         string             `json:"azure_api_url" yaml:"azure_api_url"`
	Timeout        Duration           `json:"timeout" yaml:"timeout"`
	HistoryEnabled bool               `json:"history_enabled" yaml:"history_enabled"`
	ExportDir      string             `json:"export_dir,omitempty" yaml:"export_dir,omitempty"`
	LogLevel       string             `json:"log_level" yaml:"log_level"`
	TLS            *gateway.TLSConfig `json:"tls,omitempty" yaml:"tls,omitempty"`

	// Source is the file the settings were read from
	Source string `json:"-" yaml:"-"`
}

// Defaults returns the settings used for keys absent from the file
func Defaults() Settings {
	return Settings{
		HistoryEnabled: true,
		ExportDir:      ExportsDir,
		LogLevel:       "info",
	}
}

// Load reads a settings file. JSON may contain comments; .yaml and .yml
// files are decoded as YAML. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	s.Source = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if strings.TrimSpace(string(data)) != "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &s)
		default:
			err = json.Unmarshal(jsonc.ToJSON(data), &s)
		}
		if err != nil {
			return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	}

	if s.ExportDir == "" {
		s.ExportDir = ExportsDir
	}
	if s.ExportDir, err = ExpandHome(s.ExportDir); err != nil {
		return s, err
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks values that can be checked without contacting the gateway
func (s Settings) Validate() error {
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.APIURL != "" {
		if err := gateway.ValidateEndpoint(s.APIURL); err != nil {
			return err
		}
	}
	return nil
}

// ApplyOverrides applies ARCHIBUS_API_URL, then the --api-url flag value
func (s *Settings) ApplyOverrides(flagURL string) {
	if env := os.Getenv(EnvAPIURL); env != "" {
		s.APIURL = env
	}
	if flagURL != "" {
		s.APIURL = flagURL
	}
}

// RequireEndpoint fails when no usable gateway endpoint is configured
func (s Settings) RequireEndpoint() error {
	if err := gateway.ValidateEndpoint(s.APIURL); err != nil {
		return fmt.Errorf("%w (edit %s or set %s)", err, s.Source, EnvAPIURL)
	}
	return nil
}

// ClientOptions translates the settings into gateway client options
func (s Settings) ClientOptions(userAgent string) []gateway.Option {
	opts := []gateway.Option{
		gateway.WithTimeout(s.Timeout.Duration),
		gateway.WithUserAgent(userAgent),
	}
	if s.TLS != nil {
		opts = append(opts, gateway.WithTLS(s.TLS))
	}
	return opts
}
