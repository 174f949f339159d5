package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// SamplePath is where the built-in dataset answers
const SamplePath = "/archibus"

// MetricsPath is served by every mock gateway and cannot be routed
const MetricsPath = "/metrics"

// DefaultConfig serves the built-in dataset on POST /archibus
func DefaultConfig() *Config {
	return &Config{
		Port:    8080,
		Host:    "localhost",
		Logging: true,
		Routes: []Route{
			{
				Name:        "archibus-sample",
				Method:      http.MethodPost,
				Path:        SamplePath,
				Status:      http.StatusOK,
				Headers:     map[string]string{"Content-Type": "application/json"},
				Sample:      true,
				Description: "Building and floor records filtered by building.bl_id, building.name.contains and floor.fl_id",
			},
		},
	}
}

type format int

const (
	formatYAML format = iota
	formatJSON
)

func formatOf(path string) (format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json", ".jsonc":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported mock file format %q (use .yaml, .yml or .json)", ext)
	}
}

// LoadConfig reads a route file. JSON files may carry comments.
// Port and host fall back to DefaultConfig when the file leaves them out.
func LoadConfig(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mock file: %w", err)
	}

	def := DefaultConfig()
	cfg := Config{Port: def.Port, Host: def.Host, Logging: true}
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case formatJSON:
		err = json.Unmarshal(jsonc.ToJSON(data), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse mock file %s: %w", filepath.Base(path), err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid mock file %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// validate normalizes methods and rejects routes the server cannot answer
func (c *Config) validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("no routes defined")
	}

	for i := range c.Routes {
		r := &c.Routes[i]
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}

		r.Method = strings.ToUpper(r.Method)
		switch {
		case r.Method == "":
			return fmt.Errorf("route %s: method is required", name)
		case r.Path == "":
			return fmt.Errorf("route %s: path is required", name)
		case r.Path == MetricsPath:
			return fmt.Errorf("route %s: %s is reserved", name, MetricsPath)
		case r.Sample && (r.Body != "" || r.BodyFile != ""):
			return fmt.Errorf("route %s: sample routes cannot set body or bodyFile", name)
		}

		switch r.PathType {
		case "", "exact", "prefix", "regex":
		default:
			return fmt.Errorf("route %s: pathType %q is not exact, prefix or regex", name, r.PathType)
		}
	}
	return nil
}

// SaveConfig writes cfg in the format picked by the file extension
func SaveConfig(cfg *Config, path string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(cfg)
	case formatJSON:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode mock file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mock file: %w", err)
	}
	return nil
}
