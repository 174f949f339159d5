package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each section maps an action to comma-separated keys.
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Form    map[string]string `json:"form,omitempty"`
	Filter  map[string]string `json:"filter,omitempty"`
	History map[string]string `json:"history,omitempty"`
	Confirm map[string]string `json:"confirm,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextForm:    c.Form,
		ContextFilter:  c.Filter,
		ContextHistory: c.History,
		ContextConfirm: c.Confirm,
	}
}

// LoadConfig loads keybinding configuration from a JSON file; comments are allowed
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SplitKeys splits "a, b,c" into trimmed keys
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry.
// Each configured action loses its default keys in that context first.
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for actionStr, keys := range bindings {
			action := Action(actionStr)
			if err := ValidateAction(actionStr); err != nil {
				return fmt.Errorf("%s.%s: %w", context, actionStr, err)
			}
			for _, key := range SplitKeys(keys) {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("%s.%s: %w", context, actionStr, err)
				}
			}
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, SplitKeys(keys), action)
		}
	}
	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err != nil {
		return registry, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if result := NewValidator().ValidateConfig(config); result.HasErrors() {
		return nil, fmt.Errorf("invalid keybinds.json:\n%s", result.String())
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return registry, nil
}

// ExportDefaults exports the default bindings as a config, one entry per action
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	collect := func(context Context) map[string]string {
		grouped := make(map[string][]string)
		for _, b := range registry.ListBindings(context) {
			if b.Context != context {
				continue
			}
			grouped[string(b.Action)] = append(grouped[string(b.Action)], b.Key)
		}
		out := make(map[string]string, len(grouped))
		for action, keys := range grouped {
			out[action] = strings.Join(keys, ",")
		}
		return out
	}

	config.Global = collect(ContextGlobal)
	config.Form = collect(ContextForm)
	config.Filter = collect(ContextFilter)
	config.History = collect(ContextHistory)
	config.Confirm = collect(ContextConfirm)
	return config
}
