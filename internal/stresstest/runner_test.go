package stresstest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talis-fb/RequestTUI/internal/executor"
	"github.com/talis-fb/RequestTUI/internal/types"
)

type countingClient struct {
	calls  atomic.Int32
	active atomic.Int32
	peak   atomic.Int32
	delay  time.Duration
	resp   func(n int32) types.Response
}

func (c *countingClient) Execute(ctx context.Context, _ types.HttpRequest) types.Response {
	n := c.calls.Add(1)
	a := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if a <= p || c.peak.CompareAndSwap(p, a) {
			break
		}
	}

	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return types.InternalErrorResponse(ctx.Err())
		}
	}
	return c.resp(n)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"valid", Config{ConcurrentConns: 2, TotalRequests: 10}, ""},
		{"no workers", Config{TotalRequests: 10}, "concurrent connections must be greater than 0"},
		{"too many workers", Config{ConcurrentConns: 1001, TotalRequests: 10}, "cannot exceed 1000"},
		{"no requests", Config{ConcurrentConns: 1}, "total requests must be greater than 0"},
		{"negative ramp-up", Config{ConcurrentConns: 1, TotalRequests: 1, RampUp: -time.Second}, "ramp-up"},
		{"negative duration", Config{ConcurrentConns: 1, TotalRequests: 1, Duration: -time.Second}, "test duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := NewRunner(&countingClient{}, Config{}, logr.Discard())
	assert.ErrorContains(t, err, "invalid config")
}

func TestRunner_CompletesAllRequests(t *testing.T) {
	client := &countingClient{
		delay: time.Millisecond,
		resp: func(n int32) types.Response {
			if n%5 == 0 {
				return types.Response{Status: 500, ResponseTime: 2}
			}
			return types.Response{Status: 200, ResponseTime: int64(n)}
		},
	}
	r, err := NewRunner(client, Config{ConcurrentConns: 4, TotalRequests: 20}, logr.Discard())
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), types.HttpRequest{URL: "http://x"})
	require.NoError(t, err)

	assert.Equal(t, int32(20), client.calls.Load())
	assert.LessOrEqual(t, client.peak.Load(), int32(4))
	assert.Equal(t, 20, stats.CompletedRequests)
	assert.Equal(t, 16, stats.SuccessCount)
	assert.Equal(t, 4, stats.UnexpectedCount)
	assert.Equal(t, map[int]int{200: 16, 500: 4}, stats.StatusCodes)
	assert.Equal(t, 80.0, stats.SuccessRate())
	assert.Positive(t, stats.Elapsed)
	assert.Positive(t, stats.RequestsPerSecond())
}

func TestRunner_ExpectStatus(t *testing.T) {
	client := &countingClient{resp: func(int32) types.Response { return types.Response{Status: 200} }}
	r, err := NewRunner(client, Config{ConcurrentConns: 2, TotalRequests: 6, ExpectStatus: 201}, logr.Discard())
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), types.HttpRequest{})
	require.NoError(t, err)
	assert.Equal(t, 6, stats.UnexpectedCount)
	assert.Zero(t, stats.SuccessCount)
}

func TestRunner_LocalErrors(t *testing.T) {
	client := &countingClient{resp: func(int32) types.Response {
		return types.InternalErrorResponse(assert.AnError)
	}}
	r, err := NewRunner(client, Config{ConcurrentConns: 2, TotalRequests: 3}, logr.Discard())
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), types.HttpRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LocalErrorCount)
	assert.Empty(t, stats.StatusCodes)
}

func TestRunner_DurationStopsEarly(t *testing.T) {
	client := &countingClient{
		delay: 20 * time.Millisecond,
		resp:  func(int32) types.Response { return types.Response{Status: 200, ResponseTime: 20} },
	}
	r, err := NewRunner(client, Config{ConcurrentConns: 2, TotalRequests: 1000, Duration: 100 * time.Millisecond}, logr.Discard())
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), types.HttpRequest{})

	require.NoError(t, err, "reaching the duration is a normal end")
	assert.Less(t, stats.CompletedRequests, 1000)
	assert.Zero(t, stats.LocalErrorCount, "interrupted requests are not counted")
}

func TestRunner_Cancelled(t *testing.T) {
	client := &countingClient{
		delay: 20 * time.Millisecond,
		resp:  func(int32) types.Response { return types.Response{Status: 200} },
	}
	r, err := NewRunner(client, Config{ConcurrentConns: 1, TotalRequests: 1000}, logr.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	stats, err := r.Run(ctx, types.HttpRequest{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, stats.CompletedRequests, 1000)
}

func TestRunner_AgainstServer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r, err := NewRunner(executor.New(time.Second), Config{ConcurrentConns: 3, TotalRequests: 9, RampUp: 9 * time.Millisecond}, logr.Discard())
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), types.HttpRequest{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, int32(9), hits.Load())
	assert.Equal(t, map[int]int{204: 9}, stats.StatusCodes)
}

func TestStats_Percentile(t *testing.T) {
	s := NewStats(100)
	assert.Zero(t, s.Percentile(50))
	assert.Zero(t, s.Min())
	assert.Zero(t, s.AvgDurationMs())

	for i := int64(100); i >= 1; i-- {
		s.Add(Result{Status: 200, DurationMs: i})
	}

	assert.Equal(t, int64(1), s.Min())
	assert.Equal(t, int64(100), s.Max())
	assert.Equal(t, 50.5, s.AvgDurationMs())
	assert.Equal(t, int64(50), s.Percentile(50))
	assert.Equal(t, int64(95), s.Percentile(95))
	assert.Equal(t, int64(100), s.Percentile(100))
	assert.Equal(t, int64(100), s.Durations[0], "percentiles do not reorder the samples")
}
