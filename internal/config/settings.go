package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevels lists the accepted values of Settings.LogLevel
var LogLevels = []string{"debug", "info", "warn", "error"}

// Settings are the user-tunable application settings
type Settings struct {
	// RenderInterval is both the frame pacing of the render task and the
	// longest the main loop waits for an action per tick
	RenderInterval time.Duration `yaml:"render_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	HistoryEnabled bool          `yaml:"history_enabled"`
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	return Settings{
		RenderInterval: 20 * time.Millisecond,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		HistoryEnabled: true,
	}
}

// Validate checks value ranges
func (s Settings) Validate() error {
	var errs []error
	if s.RenderInterval <= 0 || s.RenderInterval > time.Second {
		errs = append(errs, fmt.Errorf("render_interval must be in (0, 1s], got %s", s.RenderInterval))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", s.RequestTimeout))
	}
	if !slices.Contains(LogLevels, s.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of %v, got %q", LogLevels, s.LogLevel))
	}
	return errors.Join(errs...)
}

// LoadSettings reads settings from path. Fields absent from the file keep
// their defaults; a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings to path
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
