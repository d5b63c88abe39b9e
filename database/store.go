// Package database persists standardized candidates and run history in
// SQLite.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the pipeline database connection.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the database at dbPath and applies migrations.
// Use ":memory:" for an in-process database.
func NewStore(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory SQLite gets a fresh empty database per connection, so the
	// pool must hold exactly one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	s := &Store{
		conn:   conn,
		logger: slog.Default().With("component", "database"),
	}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			stable_id        TEXT PRIMARY KEY,
			candidate_name   TEXT NOT NULL,
			raw_name         TEXT NOT NULL DEFAULT '',
			office           TEXT NOT NULL DEFAULT '',
			source_office    TEXT NOT NULL DEFAULT '',
			district         TEXT NOT NULL DEFAULT '',
			party            TEXT NOT NULL DEFAULT '',
			source_party     TEXT NOT NULL DEFAULT '',
			state            TEXT NOT NULL DEFAULT '',
			county           TEXT NOT NULL DEFAULT '',
			election_year    TEXT NOT NULL DEFAULT '',
			election_date    TEXT NOT NULL DEFAULT '',
			street           TEXT NOT NULL DEFAULT '',
			city             TEXT NOT NULL DEFAULT '',
			address_state    TEXT NOT NULL DEFAULT '',
			zip              TEXT NOT NULL DEFAULT '',
			phone            TEXT NOT NULL DEFAULT '',
			office_confidence REAL NOT NULL DEFAULT 0,
			party_confidence  REAL NOT NULL DEFAULT 0,
			updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_state ON candidates(state)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_office ON candidates(office)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_year ON candidates(election_year)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			state       TEXT NOT NULL,
			report_json TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
