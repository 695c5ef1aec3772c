package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// DefaultTimeout bounds a request when no timeout is configured
const DefaultTimeout = 30 * time.Second

// Client executes requests over HTTP or WebSocket
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// New creates a client whose requests time out after timeout
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
		timeout: timeout,
	}
}

// Execute performs the request and returns the result. Local failures
// come back as a StatusInternalError response.
func (c *Client) Execute(ctx context.Context, req types.HttpRequest) types.Response {
	if isWebSocketURL(req.URL) {
		return c.executeWebSocket(ctx, req)
	}

	startTime := time.Now()

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = bytes.NewBufferString(req.Body)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return types.InternalErrorResponse(fmt.Errorf("failed to create request: %w", err))
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	duration := time.Since(startTime).Milliseconds()
	if err != nil {
		out := types.InternalErrorResponse(err)
		out.ResponseTime = duration
		return out
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		out := types.InternalErrorResponse(fmt.Errorf("failed to read response body: %w", err))
		out.ResponseTime = time.Since(startTime).Milliseconds()
		return out
	}

	return types.Response{
		Status:       resp.StatusCode,
		ResponseTime: time.Since(startTime).Milliseconds(),
		Headers:      flattenHeaders(resp.Header),
		Body:         string(bodyBytes),
	}
}

func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for key, values := range h {
		headers[key] = strings.Join(values, ", ")
	}
	return headers
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	return fmt.Sprintf("%.2fs", seconds)
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// IsClientErrorStatus returns true if status code is 4xx
func IsClientErrorStatus(status int) bool {
	return status >= 400 && status < 500
}

// IsServerErrorStatus returns true if status code is 5xx
func IsServerErrorStatus(status int) bool {
	return status >= 500 && status < 600
}
