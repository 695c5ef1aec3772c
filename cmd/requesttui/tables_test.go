package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/talis-fb/RequestTUI/internal/history"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/stresstest"
	"github.com/talis-fb/RequestTUI/internal/types"
)

func TestKeysTable(t *testing.T) {
	out := keysTable(keybinds.NewDefaultRegistry()).String()

	assert.Contains(t, out, "KEYS")
	assert.Contains(t, out, "g g")
	assert.Contains(t, out, "go_to_top")
	assert.Contains(t, out, "Go to top")
}

func TestHistoryTable(t *testing.T) {
	out := historyTable([]history.Entry{
		{
			Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local),
			Request:   types.HttpRequest{Method: "GET", URL: "http://a"},
			Response:  types.Response{Status: 200, ResponseTime: 12},
		},
		{
			Timestamp: time.Date(2026, 1, 2, 3, 4, 6, 0, time.Local),
			Request:   types.HttpRequest{Method: "POST", URL: "http://b"},
			Response:  types.InternalErrorResponse(assert.AnError),
		},
	}).String()

	assert.Contains(t, out, "2026-01-02 03:04:05")
	assert.Contains(t, out, "http://a")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "error")
}

func TestStatsTable(t *testing.T) {
	out := statsTable([]history.Stats{
		{Method: "GET", URL: "http://a", TotalCalls: 4, SuccessCount: 3, ErrorCount: 1},
		{Name: "login", TotalCalls: 1},
	}).String()

	assert.Contains(t, out, "GET http://a")
	assert.Contains(t, out, "75")
	assert.Contains(t, out, "login")
}

func TestBenchTable(t *testing.T) {
	s := stresstest.NewStats(3)
	s.Add(stresstest.Result{Status: 200, DurationMs: 10})
	s.Add(stresstest.Result{Status: 503, DurationMs: 30, Unexpected: true})

	out := benchTable(s).String()

	assert.Contains(t, out, "2/3")
	assert.Contains(t, out, "1 (50.0%)")
	assert.Contains(t, out, "status 200")
	assert.Contains(t, out, "status 503")
}
