package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/talis-fb/RequestTUI/internal/migrations"
	"github.com/talis-fb/RequestTUI/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrInvalidLimit is returned when fewer than one entry is requested
var ErrInvalidLimit = errors.New("limit must be at least 1")

// Entry is one recorded execution
type Entry struct {
	ID        int64
	Timestamp time.Time
	Request   types.HttpRequest
	Response  types.Response
}

// Manager records executions in a SQLite database
type Manager struct {
	db *sql.DB
}

// NewManager opens (or creates) the history database at dbPath
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record saves a request/response pair
func (m *Manager) Record(req types.HttpRequest, resp types.Response) error {
	headersJSON, err := json.Marshal(req.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}

	responseHeadersJSON, err := json.Marshal(resp.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal response headers: %w", err)
	}

	query := `
		INSERT INTO history (
			timestamp, request_id, request_name, method, url, headers, body,
			response_status, response_headers, response_body, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = m.db.Exec(query,
		time.Now().Local().Format(timestampLayout),
		req.ID,
		req.Name,
		req.Method,
		req.URL,
		string(headersJSON),
		req.Body,
		resp.Status,
		string(responseHeadersJSON),
		resp.Body,
		resp.ResponseTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first
func (m *Manager) Recent(limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLimit, limit)
	}
	query := `
		SELECT id, timestamp, request_id, request_name, method, url, headers, body,
		       response_status, response_headers, response_body, duration_ms
		FROM history
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

// ForRequest returns up to limit entries of one request, newest first
func (m *Manager) ForRequest(requestID string, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLimit, limit)
	}
	query := `
		SELECT id, timestamp, request_id, request_name, method, url, headers, body,
		       response_status, response_headers, response_body, duration_ms
		FROM history
		WHERE request_id = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, requestID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for request: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry

	for rows.Next() {
		var entry Entry
		var timestamp string
		var requestName sql.NullString
		var body sql.NullString
		var headersJSON string
		var responseHeadersJSON string

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.Request.ID,
			&requestName,
			&entry.Request.Method,
			&entry.Request.URL,
			&headersJSON,
			&body,
			&entry.Response.Status,
			&responseHeadersJSON,
			&entry.Response.Body,
			&entry.Response.ResponseTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.Request.Name = requestName.String
		entry.Request.Body = body.String

		if err := json.Unmarshal([]byte(headersJSON), &entry.Request.Headers); err != nil {
			entry.Request.Headers = make(map[string]string)
		}
		if err := json.Unmarshal([]byte(responseHeadersJSON), &entry.Response.Headers); err != nil {
			entry.Response.Headers = make(map[string]string)
		}

		parsedTime, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsedTime = time.Now()
			}
		}
		entry.Timestamp = parsedTime

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Clear removes every entry
func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// GetCount returns the number of recorded entries
func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
