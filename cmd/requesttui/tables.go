package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/talis-fb/RequestTUI/internal/executor"
	"github.com/talis-fb/RequestTUI/internal/history"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/stresstest"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func keysTable(registry *keybinds.Registry) *table.Table {
	t := newTable("KEYS", "ACTION", "DESCRIPTION")
	for _, b := range registry.ListBindings() {
		t.Row(b.Chord, string(b.Action), keybinds.GetActionInfo(b.Action).Description)
	}
	return t
}

func historyTable(entries []history.Entry) *table.Table {
	t := newTable("WHEN", "METHOD", "URL", "STATUS", "DURATION")
	for _, e := range entries {
		status := strconv.Itoa(e.Response.Status)
		if e.Response.IsInternalError() {
			status = "error"
		}
		t.Row(
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Request.Method,
			e.Request.URL,
			status,
			executor.FormatDuration(e.Response.ResponseTime),
		)
	}
	return t
}

func statsTable(stats []history.Stats) *table.Table {
	t := newTable("REQUEST", "CALLS", "OK %", "4XX/5XX", "LOCAL", "AVG", "MIN", "MAX")
	for _, s := range stats {
		name := s.Name
		if name == "" {
			name = s.Method + " " + s.URL
		}
		t.Row(
			name,
			strconv.Itoa(s.TotalCalls),
			fmt.Sprintf("%.0f", s.SuccessRate()),
			strconv.Itoa(s.ErrorCount),
			strconv.Itoa(s.LocalErrors),
			executor.FormatDuration(int64(s.AvgDurationMs)),
			executor.FormatDuration(s.MinDurationMs),
			executor.FormatDuration(s.MaxDurationMs),
		)
	}
	return t
}

func benchTable(s *stresstest.Stats) *table.Table {
	t := newTable("METRIC", "VALUE")
	t.Row("completed", fmt.Sprintf("%d/%d", s.CompletedRequests, s.TotalRequests))
	t.Row("success", fmt.Sprintf("%d (%.1f%%)", s.SuccessCount, s.SuccessRate()))
	t.Row("unexpected status", strconv.Itoa(s.UnexpectedCount))
	t.Row("local errors", strconv.Itoa(s.LocalErrorCount))
	t.Row("throughput", fmt.Sprintf("%.1f req/s", s.RequestsPerSecond()))
	t.Row("min", executor.FormatDuration(s.Min()))
	t.Row("avg", executor.FormatDuration(int64(s.AvgDurationMs())))
	t.Row("p50", executor.FormatDuration(s.Percentile(50)))
	t.Row("p95", executor.FormatDuration(s.Percentile(95)))
	t.Row("p99", executor.FormatDuration(s.Percentile(99)))
	t.Row("max", executor.FormatDuration(s.Max()))
	for _, code := range slices.Sorted(maps.Keys(s.StatusCodes)) {
		t.Row(fmt.Sprintf("status %d", code), strconv.Itoa(s.StatusCodes[code]))
	}
	return t
}
