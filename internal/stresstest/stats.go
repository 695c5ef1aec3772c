package stresstest

import (
	"slices"
	"time"
)

// Stats holds the outcome of a stress test
type Stats struct {
	TotalRequests     int
	CompletedRequests int
	SuccessCount      int
	LocalErrorCount   int // never reached the server (timeouts, refused connections)
	UnexpectedCount   int // answered with an unexpected status
	StatusCodes       map[int]int
	Durations         []int64 // for percentile calculation
	TotalDurationMs   int64
	MinDurationMs     int64
	MaxDurationMs     int64
	Elapsed           time.Duration
}

// NewStats creates an empty Stats for a run of total requests
func NewStats(total int) *Stats {
	return &Stats{
		TotalRequests: total,
		StatusCodes:   make(map[int]int),
		Durations:     make([]int64, 0, min(total, 1000)),
		MinDurationMs: -1,
		MaxDurationMs: -1,
	}
}

// Add records one finished request
func (s *Stats) Add(r Result) {
	s.CompletedRequests++
	s.TotalDurationMs += r.DurationMs
	s.Durations = append(s.Durations, r.DurationMs)

	switch {
	case r.LocalError:
		s.LocalErrorCount++
	case r.Unexpected:
		s.UnexpectedCount++
	default:
		s.SuccessCount++
	}
	if !r.LocalError {
		s.StatusCodes[r.Status]++
	}

	if s.MinDurationMs == -1 || r.DurationMs < s.MinDurationMs {
		s.MinDurationMs = r.DurationMs
	}
	if s.MaxDurationMs == -1 || r.DurationMs > s.MaxDurationMs {
		s.MaxDurationMs = r.DurationMs
	}
}

// AvgDurationMs returns the average duration in milliseconds
func (s *Stats) AvgDurationMs() float64 {
	if s.CompletedRequests == 0 {
		return 0
	}
	return float64(s.TotalDurationMs) / float64(s.CompletedRequests)
}

// Min returns the minimum duration, or 0 if no results
func (s *Stats) Min() int64 {
	return max(s.MinDurationMs, 0)
}

// Max returns the maximum duration, or 0 if no results
func (s *Stats) Max() int64 {
	return max(s.MaxDurationMs, 0)
}

// Percentile interpolates the p-th percentile duration (0 <= p <= 100)
func (s *Stats) Percentile(p float64) int64 {
	if len(s.Durations) == 0 {
		return 0
	}
	sorted := slices.Sorted(slices.Values(s.Durations))

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return int64(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}

// SuccessRate returns the success rate as a percentage
func (s *Stats) SuccessRate() float64 {
	if s.CompletedRequests == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.CompletedRequests) * 100
}

// RequestsPerSecond is the completed throughput over the whole run
func (s *Stats) RequestsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.CompletedRequests) / s.Elapsed.Seconds()
}
