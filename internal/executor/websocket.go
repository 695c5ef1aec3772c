package executor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talis-fb/RequestTUI/internal/types"
)

func isWebSocketURL(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lower, "ws://") || strings.HasPrefix(lower, "wss://")
}

// executeWebSocket dials the endpoint, sends the body as a text message when
// there is one, and waits for a single reply.
func (c *Client) executeWebSocket(ctx context.Context, req types.HttpRequest) types.Response {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.timeout,
	}

	headers := http.Header{}
	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	conn, resp, err := dialer.DialContext(ctx, req.URL, headers)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("connection failed (HTTP %d): %w", resp.StatusCode, err)
		} else {
			err = fmt.Errorf("connection failed: %w", err)
		}
		out := types.InternalErrorResponse(err)
		out.ResponseTime = time.Since(startTime).Milliseconds()
		return out
	}
	defer conn.Close()

	fail := func(err error) types.Response {
		out := types.InternalErrorResponse(err)
		out.ResponseTime = time.Since(startTime).Milliseconds()
		return out
	}

	if req.Body != "" {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(req.Body)); err != nil {
			return fail(fmt.Errorf("failed to send message: %w", err))
		}
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		return fail(fmt.Errorf("failed to read message: %w", err))
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	return types.Response{
		Status:       resp.StatusCode,
		ResponseTime: time.Since(startTime).Milliseconds(),
		Headers:      flattenHeaders(resp.Header),
		Body:         string(message),
	}
}
