// Package importer turns HAR captures and .http files into requests for the
// collection.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// ErrNoRequests is returned when a source holds nothing to import
var ErrNoRequests = errors.New("no requests found")

// sensitiveHeaders are dropped from HAR entries unless KeepSensitive is set
var sensitiveHeaders = []string{"Cookie", "Authorization", "X-Auth-Token", "X-Api-Key"}

// HAROptions contains options for HAR import
type HAROptions struct {
	Filter        string // only keep entries whose URL contains Filter
	KeepSensitive bool   // keep cookies and credentials
}

type harFile struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	Request harRequest `json:"request"`
}

type harRequest struct {
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Headers  []harHeader `json:"headers"`
	PostData *struct {
		Text string `json:"text"`
	} `json:"postData,omitempty"`
}

type harHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FromHAR reads a HAR capture and returns one request per HTTP(S) entry
func FromHAR(r io.Reader, opts HAROptions) ([]types.HttpRequest, error) {
	var har harFile
	if err := json.NewDecoder(r).Decode(&har); err != nil {
		return nil, fmt.Errorf("failed to parse HAR file: %w", err)
	}

	var requests []types.HttpRequest
	for _, entry := range har.Log.Entries {
		req := entry.Request
		if opts.Filter != "" && !strings.Contains(req.URL, opts.Filter) {
			continue
		}
		if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
			continue
		}
		requests = append(requests, harToRequest(req, opts.KeepSensitive))
	}

	if len(requests) == 0 {
		return nil, ErrNoRequests
	}
	return requests, nil
}

func harToRequest(req harRequest, keepSensitive bool) types.HttpRequest {
	headers := make(map[string]string)
	for _, h := range req.Headers {
		// HTTP/2 pseudo-headers
		if strings.HasPrefix(h.Name, ":") {
			continue
		}
		headers[http.CanonicalHeaderKey(h.Name)] = h.Value
	}
	if !keepSensitive {
		for _, name := range sensitiveHeaders {
			delete(headers, name)
		}
	}

	method := strings.ToUpper(req.Method)
	out := types.HttpRequest{
		Name:    method + " " + extractPath(req.URL),
		Method:  method,
		URL:     req.URL,
		Headers: headers,
	}
	if req.PostData != nil {
		out.Body = req.PostData.Text
	}
	return out
}

// extractPath returns the path of an absolute URL without its query
func extractPath(rawURL string) string {
	_, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return "/"
	}
	i := strings.Index(rest, "/")
	if i == -1 {
		return "/"
	}
	path := rest[i:]
	if q := strings.IndexAny(path, "?#"); q != -1 {
		path = path[:q]
	}
	return path
}
