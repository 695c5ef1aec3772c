package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppFile is a text file owned by the application. The file is created on
// first write; reads of a missing file return an error wrapping
// os.ErrNotExist.
type AppFile struct {
	path string
}

// NewAppFile returns an AppFile for path. Nothing is touched on disk.
func NewAppFile(path string) *AppFile {
	return &AppFile{path: path}
}

// Path returns the backing file path
func (f *AppFile) Path() string {
	return f.path
}

// GetContent reads the whole file
func (f *AppFile) GetContent() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return string(data), nil
}

// SaveContent replaces the file content, creating the file and its parent
// directory if absent
func (f *AppFile) SaveContent(content string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.path, err)
	}

	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.path, err)
	}
	return nil
}
