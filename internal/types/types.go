package types

import (
	"maps"
	"strings"
)

// StatusInternalError is the out-of-band status used when a request never
// reached the server. The error text is carried in Response.Body.
const StatusInternalError = 77

// Methods lists the HTTP methods a request can cycle through
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// HttpRequest represents one request in the collection
type HttpRequest struct {
	ID      string            `json:"id" yaml:"id"`
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
	// Filter is a JMESPath expression applied to the response body for display
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// Clone returns a copy that shares no maps with r
func (r HttpRequest) Clone() HttpRequest {
	r.Headers = maps.Clone(r.Headers)
	return r
}

// DisplayName returns the name, falling back to "METHOD url"
func (r HttpRequest) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.URL == "" {
		return r.Method + " (no url)"
	}
	return r.Method + " " + r.URL
}

// Response is the result of executing a request
type Response struct {
	Status       int               `json:"status" yaml:"status"`
	ResponseTime int64             `json:"responseTime" yaml:"responseTime"` // milliseconds
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body         string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// InternalErrorResponse wraps a local failure as a Response
func InternalErrorResponse(err error) Response {
	return Response{
		Status:  StatusInternalError,
		Headers: map[string]string{},
		Body:    err.Error(),
	}
}

// IsInternalError reports whether the response describes a local failure
func (r Response) IsInternalError() bool {
	return r.Status == StatusInternalError
}

// Clone returns a copy that shares no maps with r
func (r Response) Clone() Response {
	r.Headers = maps.Clone(r.Headers)
	return r
}

// NextMethod returns the method after m in Methods, wrapping around.
// Unknown methods restart at GET.
func NextMethod(m string) string {
	m = strings.ToUpper(m)
	for i, method := range Methods {
		if method == m {
			return Methods[(i+1)%len(Methods)]
		}
	}
	return Methods[0]
}

// RequestFile is the on-disk form of the request collection
type RequestFile struct {
	Version  string        `yaml:"version"`
	Requests []HttpRequest `yaml:"requests"`
}
