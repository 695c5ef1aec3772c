package keybinds

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// unbindAction removes a default binding when used as a value in the config
const unbindAction = "none"

// Config represents the user's keybinding overrides.
//
//	bindings:
//	  "g g": go_to_top
//	  "Z Z": quit
//	  "x": none
type Config struct {
	Version  string            `yaml:"version,omitempty"`
	Bindings map[string]string `yaml:"bindings,omitempty"`
}

// LoadConfig loads keybinding configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keymap format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings.
func ApplyConfig(registry *Registry, config *Config) error {
	for chord, actionStr := range config.Bindings {
		if len(ParseChord(chord)) == 0 {
			return fmt.Errorf("empty chord bound to %q", actionStr)
		}
		if actionStr == unbindAction {
			registry.Unbind(chord)
			continue
		}
		action := Action(actionStr)
		if !IsKnownAction(action) {
			return fmt.Errorf("chord %q: unknown action %q", chord, actionStr)
		}
		registry.Register(chord, action)
	}
	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns the
// default registry. The result is validated before it is returned.
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	config, err := LoadConfig(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return registry, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load keymap: %w", err)
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keymap config: %w", err)
	}

	if result := NewValidator().ValidateRegistry(registry); result.HasErrors() {
		return nil, fmt.Errorf("invalid keymap:\n%s", result.String())
	}

	return registry, nil
}
