package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/talis-fb/RequestTUI/internal/importer"
	"github.com/talis-fb/RequestTUI/internal/storage"
	"github.com/talis-fb/RequestTUI/internal/types"
)

// importFile appends the requests found in path to the collection in p and
// returns how many were added. Files ending in .har are read as HAR captures,
// anything else as a .http file.
func importFile(p storage.Persistence, path string, opts importer.HAROptions) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var imported []types.HttpRequest
	if strings.EqualFold(filepath.Ext(path), ".har") {
		imported, err = importer.FromHAR(f, opts)
	} else {
		imported, err = importer.FromHTTPFile(f)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}

	existing, err := storage.LoadRequests(p)
	if err != nil {
		return 0, fmt.Errorf("failed to load requests: %w", err)
	}
	for _, r := range imported {
		r.ID = uuid.NewString()
		existing = append(existing, r)
	}
	if err := storage.SaveRequests(p, existing); err != nil {
		return 0, fmt.Errorf("failed to save requests: %w", err)
	}
	return len(imported), nil
}
