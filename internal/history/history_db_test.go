package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talis-fb/RequestTUI/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndRecent(t *testing.T) {
	m := newTestManager(t)

	req := types.HttpRequest{ID: "r1", Name: "users", Method: "GET", URL: "http://x", Headers: map[string]string{"A": "1"}}
	require.NoError(t, m.Record(req, types.Response{Status: 200, ResponseTime: 12, Headers: map[string]string{"B": "2"}, Body: "ok"}))
	require.NoError(t, m.Record(req, types.InternalErrorResponse(assert.AnError)))

	entries, err := m.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, types.StatusInternalError, entries[0].Response.Status)
	assert.Equal(t, 200, entries[1].Response.Status)
	assert.Equal(t, int64(12), entries[1].Response.ResponseTime)
	assert.Equal(t, "ok", entries[1].Response.Body)
	assert.Equal(t, map[string]string{"B": "2"}, entries[1].Response.Headers)
	assert.Equal(t, req, entries[1].Request)
	assert.False(t, entries[1].Timestamp.IsZero())

	limited, err := m.Recent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestForRequestAndClear(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Record(types.HttpRequest{ID: "a", Method: "GET", URL: "http://a"}, types.Response{Status: 200}))
	require.NoError(t, m.Record(types.HttpRequest{ID: "b", Method: "GET", URL: "http://b"}, types.Response{Status: 404}))

	require.NoError(t, m.Record(types.HttpRequest{ID: "b", Method: "GET", URL: "http://b"}, types.Response{Status: 500}))

	entries, err := m.ForRequest("b", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 500, entries[0].Response.Status)

	entries, err = m.ForRequest("b", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 500, entries[0].Response.Status)

	count, err := m.GetCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, m.Clear())
	count, err = m.GetCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStats(t *testing.T) {
	m := newTestManager(t)

	a := types.HttpRequest{ID: "a", Name: "users", Method: "GET", URL: "http://a"}
	require.NoError(t, m.Record(a, types.Response{Status: 200, ResponseTime: 10}))
	require.NoError(t, m.Record(a, types.Response{Status: 500, ResponseTime: 30}))
	require.NoError(t, m.Record(a, types.InternalErrorResponse(assert.AnError)))
	require.NoError(t, m.Record(types.HttpRequest{ID: "b", Method: "POST", URL: "http://b"}, types.Response{Status: 201, ResponseTime: 5}))

	stats, err := m.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byID := map[string]Stats{}
	for _, s := range stats {
		byID[s.RequestID] = s
	}

	sa := byID["a"]
	assert.Equal(t, "users", sa.Name)
	assert.Equal(t, 3, sa.TotalCalls)
	assert.Equal(t, 1, sa.SuccessCount)
	assert.Equal(t, 1, sa.ErrorCount)
	assert.Equal(t, 1, sa.LocalErrors)
	assert.InDelta(t, 40.0/3, sa.AvgDurationMs, 0.001)
	assert.Equal(t, int64(0), sa.MinDurationMs)
	assert.Equal(t, int64(30), sa.MaxDurationMs)
	assert.Equal(t, map[int]int{200: 1, 500: 1, types.StatusInternalError: 1}, sa.StatusCodes)
	assert.False(t, sa.LastCalled.IsZero())
	assert.InDelta(t, 33.33, sa.SuccessRate(), 0.01)

	sb := byID["b"]
	assert.Equal(t, 1, sb.TotalCalls)
	assert.Equal(t, 100.0, sb.SuccessRate())
}

func TestStats_Empty(t *testing.T) {
	m := newTestManager(t)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.Zero(t, Stats{}.SuccessRate())
}

func TestInvalidLimit(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Record(types.HttpRequest{ID: "a", Method: "GET", URL: "http://a"}, types.Response{Status: 200}))

	for _, limit := range []int{0, -1} {
		_, err := m.Recent(limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)

		_, err = m.ForRequest("a", limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	}
}
