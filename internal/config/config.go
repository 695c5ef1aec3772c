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

	// DefaultDirName is the configuration directory created under the home directory
	DefaultDirName = ".requesttui"
)

var (
	// ConfigDir is the global configuration directory (~/.requesttui)
	ConfigDir string

	// RequestsFile holds the saved request collection
	RequestsFile string

	// KeymapFile holds keybinding overrides
	KeymapFile string

	// SettingsFile holds the application settings
	SettingsFile string

	// HistoryDB is the SQLite database file for execution history
	HistoryDB string

	// LogFile receives the structured application log
	LogFile string
)

// Initialize sets up the configuration directory and files.
// An empty dir means ~/.requesttui; a leading "~/" is expanded.
func Initialize(dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}

	ConfigDir = dir
	RequestsFile = filepath.Join(ConfigDir, "requests.yaml")
	KeymapFile = filepath.Join(ConfigDir, "keymap.yaml")
	SettingsFile = filepath.Join(ConfigDir, "settings.yaml")
	HistoryDB = filepath.Join(ConfigDir, "history.db")
	LogFile = filepath.Join(ConfigDir, "requesttui.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default settings file if it doesn't exist
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		if err := SaveSettings(SettingsFile, DefaultSettings()); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, DefaultDirName), nil
	}

	if strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, dir[2:])
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}
