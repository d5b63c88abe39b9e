package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

// Run is one recorded standardization run.
type Run struct {
	ID        int                 `json:"id"`
	State     string              `json:"state"`
	Report    *standardize.Report `json:"report"`
	CreatedAt time.Time           `json:"created_at"`
}

// SaveRun records a completed standardization run with its report.
func (s *Store) SaveRun(state string, report *standardize.Report) (int, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	res, err := s.conn.Exec(
		`INSERT INTO runs (state, report_json) VALUES (?, ?)`, state, string(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	s.logger.Info("Saved run", "run_id", id, "state", state)
	return int(id), nil
}

// GetRun loads one run by ID. Returns nil when not found.
func (s *Store) GetRun(id int) (*Run, error) {
	var (
		run       Run
		reportRaw string
		createdAt string
	)
	err := s.conn.QueryRow(
		`SELECT id, state, report_json, created_at FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.State, &reportRaw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	if err := json.Unmarshal([]byte(reportRaw), &run.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run report: %w", err)
	}
	run.CreatedAt = parseTimestamp(createdAt)
	return &run, nil
}

// ListRuns returns runs newest first, optionally filtered by state.
func (s *Store) ListRuns(state string, limit int) ([]Run, error) {
	query := `SELECT id, state, report_json, created_at FROM runs`
	var args []interface{}
	if state != "" {
		query += ` WHERE state = ?`
		args = append(args, state)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run       Run
			reportRaw string
			createdAt string
		)
		if err := rows.Scan(&run.ID, &run.State, &reportRaw, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(reportRaw), &run.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run report: %w", err)
		}
		run.CreatedAt = parseTimestamp(createdAt)
		out = append(out, run)
	}
	return out, rows.Err()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
