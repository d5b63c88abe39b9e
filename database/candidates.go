package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

// CandidateFilter narrows candidate queries. Zero values mean no filter.
type CandidateFilter struct {
	State        string
	Office       string
	Party        string
	ElectionYear string
	Limit        int
	Offset       int
}

// UpsertCandidates writes a batch of standardized records in one transaction.
// Existing records with the same stable ID are replaced: re-running a state
// refreshes its candidates instead of duplicating them.
func (s *Store) UpsertCandidates(records []standardize.Record) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO candidates (
			stable_id, candidate_name, raw_name, office, source_office,
			district, party, source_party, state, county,
			election_year, election_date, street, city, address_state,
			zip, phone, office_confidence, party_confidence, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(stable_id) DO UPDATE SET
			candidate_name = excluded.candidate_name,
			raw_name = excluded.raw_name,
			office = excluded.office,
			source_office = excluded.source_office,
			district = excluded.district,
			party = excluded.party,
			source_party = excluded.source_party,
			state = excluded.state,
			county = excluded.county,
			election_year = excluded.election_year,
			election_date = excluded.election_date,
			street = excluded.street,
			city = excluded.city,
			address_state = excluded.address_state,
			zip = excluded.zip,
			phone = excluded.phone,
			office_confidence = excluded.office_confidence,
			party_confidence = excluded.party_confidence,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range records {
		if r.StableID == "" {
			continue
		}
		if _, err := stmt.Exec(
			r.StableID, r.CandidateName, r.RawName, r.Office, r.SourceOffice,
			r.District, r.Party, r.SourceParty, r.State, r.County,
			r.ElectionYear, r.ElectionDate, r.Street, r.City, r.AddressState,
			r.Zip, r.Phone, r.OfficeConfidence, r.PartyConfidence,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert candidate %s: %w", r.StableID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Info("Upserted candidates", "count", written)
	return written, nil
}

// GetCandidate loads one candidate by stable ID. Returns nil when not found.
func (s *Store) GetCandidate(stableID string) (*standardize.Record, error) {
	rows, err := s.conn.Query(candidateSelect+" WHERE stable_id = ?", stableID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanCandidate(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListCandidates returns candidates matching the filter, ordered by state,
// office and candidate name.
func (s *Store) ListCandidates(f CandidateFilter) ([]standardize.Record, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.State != "" {
		where = append(where, "state = ?")
		args = append(args, f.State)
	}
	if f.Office != "" {
		where = append(where, "office = ?")
		args = append(args, f.Office)
	}
	if f.Party != "" {
		where = append(where, "party = ?")
		args = append(args, f.Party)
	}
	if f.ElectionYear != "" {
		where = append(where, "election_year = ?")
		args = append(args, f.ElectionYear)
	}

	query := candidateSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY state, office, candidate_name"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var out []standardize.Record
	for rows.Next() {
		r, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountCandidates returns the number of candidates matching the filter.
func (s *Store) CountCandidates(f CandidateFilter) (int, error) {
	f.Limit, f.Offset = 0, 0

	var (
		where []string
		args  []interface{}
	)
	if f.State != "" {
		where = append(where, "state = ?")
		args = append(args, f.State)
	}
	if f.Office != "" {
		where = append(where, "office = ?")
		args = append(args, f.Office)
	}
	if f.Party != "" {
		where = append(where, "party = ?")
		args = append(args, f.Party)
	}
	if f.ElectionYear != "" {
		where = append(where, "election_year = ?")
		args = append(args, f.ElectionYear)
	}

	query := "SELECT COUNT(*) FROM candidates"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := s.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}

const candidateSelect = `
	SELECT stable_id, candidate_name, raw_name, office, source_office,
	       district, party, source_party, state, county,
	       election_year, election_date, street, city, address_state,
	       zip, phone, office_confidence, party_confidence
	FROM candidates`

func scanCandidate(rows *sql.Rows) (standardize.Record, error) {
	var r standardize.Record
	err := rows.Scan(
		&r.StableID, &r.CandidateName, &r.RawName, &r.Office, &r.SourceOffice,
		&r.District, &r.Party, &r.SourceParty, &r.State, &r.County,
		&r.ElectionYear, &r.ElectionDate, &r.Street, &r.City, &r.AddressState,
		&r.Zip, &r.Phone, &r.OfficeConfidence, &r.PartyConfidence,
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan candidate: %w", err)
	}
	return r, nil
}
