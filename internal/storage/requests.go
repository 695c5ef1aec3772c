package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// FileVersion is written into every saved request collection
const FileVersion = "1"

// Persistence is the content contract the request collection is stored
// through
type Persistence interface {
	GetContent() (string, error)
	SaveContent(content string) error
}

// EncodeRequests renders a request collection as YAML
func EncodeRequests(requests []types.HttpRequest) (string, error) {
	doc := types.RequestFile{Version: FileVersion, Requests: requests}
	if doc.Requests == nil {
		doc.Requests = []types.HttpRequest{}
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode requests: %w", err)
	}
	return string(data), nil
}

// DecodeRequests parses a YAML request collection. Blank content is an
// empty collection.
func DecodeRequests(content string) ([]types.HttpRequest, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var doc types.RequestFile
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}
	if doc.Version != "" && doc.Version != FileVersion {
		return nil, fmt.Errorf("unsupported requests file version %q", doc.Version)
	}

	for i, r := range doc.Requests {
		if r.Method == "" {
			doc.Requests[i].Method = types.Methods[0]
		} else {
			doc.Requests[i].Method = strings.ToUpper(r.Method)
		}
	}
	return doc.Requests, nil
}

// LoadRequests reads the collection from p. A missing file is an empty
// collection.
func LoadRequests(p Persistence) ([]types.HttpRequest, error) {
	content, err := p.GetContent()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeRequests(content)
}

// SaveRequests writes the collection to p
func SaveRequests(p Persistence, requests []types.HttpRequest) error {
	content, err := EncodeRequests(requests)
	if err != nil {
		return err
	}
	return p.SaveContent(content)
}

// SampleRequests is the collection used when nothing has been saved yet
func SampleRequests() []types.HttpRequest {
	return []types.HttpRequest{{
		Name:    "Example",
		Method:  "GET",
		URL:     "https://httpbin.org/get",
		Headers: map[string]string{"Accept": "application/json"},
	}}
}
