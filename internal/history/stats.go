package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// Stats aggregates the recorded executions of one request
type Stats struct {
	RequestID     string
	Name          string
	Method        string
	URL           string
	TotalCalls    int
	SuccessCount  int
	ErrorCount    int // 4xx and 5xx
	LocalErrors   int // never reached the server
	AvgDurationMs float64
	MinDurationMs int64
	MaxDurationMs int64
	StatusCodes   map[int]int
	LastCalled    time.Time
}

// Stats returns per-request statistics, most recently called first
func (m *Manager) Stats() ([]Stats, error) {
	// Status codes are aggregated with JSON in a single query
	query := `
		WITH status_codes_agg AS (
			SELECT
				request_id,
				json_group_object(CAST(response_status AS TEXT), count) AS status_codes_json
			FROM (
				SELECT request_id, response_status, COUNT(*) AS count
				FROM history
				GROUP BY request_id, response_status
			)
			GROUP BY request_id
		)
		SELECT
			h.request_id,
			MAX(h.request_name),
			MAX(h.method),
			MAX(h.url),
			COUNT(*) AS total_calls,
			SUM(CASE WHEN h.response_status >= 200 AND h.response_status < 300 THEN 1 ELSE 0 END),
			SUM(CASE WHEN h.response_status >= 400 THEN 1 ELSE 0 END),
			SUM(CASE WHEN h.response_status = ? THEN 1 ELSE 0 END),
			AVG(h.duration_ms),
			MIN(h.duration_ms),
			MAX(h.duration_ms),
			MAX(h.timestamp) AS last_called,
			COALESCE(s.status_codes_json, '{}')
		FROM history h
		LEFT JOIN status_codes_agg s ON h.request_id = s.request_id
		GROUP BY h.request_id
		ORDER BY last_called DESC
	`

	rows, err := m.db.Query(query, types.StatusInternalError)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var name sql.NullString
		var lastCalled sql.NullString
		var statusCodesJSON string

		err := rows.Scan(
			&s.RequestID,
			&name,
			&s.Method,
			&s.URL,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.LocalErrors,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&lastCalled,
			&statusCodesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		s.Name = name.String

		if lastCalled.Valid {
			s.LastCalled, _ = time.ParseInLocation(timestampLayout, lastCalled.String, time.Local)
		}

		var codes map[string]int
		if err := json.Unmarshal([]byte(statusCodesJSON), &codes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status codes: %w", err)
		}
		s.StatusCodes = make(map[int]int, len(codes))
		for codeStr, count := range codes {
			var code int
			if _, err := fmt.Sscanf(codeStr, "%d", &code); err == nil {
				s.StatusCodes[code] = count
			}
		}

		statsList = append(statsList, s)
	}

	return statsList, rows.Err()
}

// SuccessRate is the share of calls answered with a 2xx status, in percent
func (s Stats) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.SuccessCount) * 100 / float64(s.TotalCalls)
}
