package database

import (
	"testing"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCandidate(id, name, state, office, year string) standardize.Record {
	return standardize.Record{
		StableID:      id,
		RawName:       name,
		CandidateName: name,
		State:         state,
		Office:        office,
		ElectionYear:  year,
	}
}

func TestUpsertCandidates_InsertAndUpdate(t *testing.T) {
	s := newTestStore(t)

	n, err := s.UpsertCandidates([]standardize.Record{
		testCandidate("abc123def456", "John Smith", "Hawaii", "US House", "2016"),
		testCandidate("def456abc789", "Jane Doe", "Hawaii", "Governor", "2016"),
	})
	if err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d records, want 2", n)
	}

	// Re-running the same IDs replaces, not duplicates.
	updated := testCandidate("abc123def456", "John Q. Smith", "Hawaii", "US House", "2016")
	if _, err := s.UpsertCandidates([]standardize.Record{updated}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	count, err := s.CountCandidates(CandidateFilter{})
	if err != nil {
		t.Fatalf("CountCandidates: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d after re-upsert, want 2", count)
	}

	got, err := s.GetCandidate("abc123def456")
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if got == nil || got.CandidateName != "John Q. Smith" {
		t.Errorf("got %+v, want the updated name", got)
	}
}

func TestUpsertCandidates_SkipsRecordsWithoutID(t *testing.T) {
	s := newTestStore(t)

	n, err := s.UpsertCandidates([]standardize.Record{
		{CandidateName: "No Identity"},
		testCandidate("abc123def456", "John Smith", "Hawaii", "US House", "2016"),
	})
	if err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}
	if n != 1 {
		t.Errorf("wrote %d records, want 1", n)
	}
}

func TestGetCandidate_NotFound(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetCandidate("missing000000")
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for a missing candidate", got)
	}
}

func TestListCandidates_Filters(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.UpsertCandidates([]standardize.Record{
		testCandidate("id1000000000", "Al", "Hawaii", "Governor", "2016"),
		testCandidate("id2000000000", "Bo", "Hawaii", "US House", "2016"),
		testCandidate("id3000000000", "Cy", "Alaska", "Governor", "2016"),
		testCandidate("id4000000000", "Di", "Alaska", "Governor", "2020"),
	}); err != nil {
		t.Fatalf("UpsertCandidates: %v", err)
	}

	got, err := s.ListCandidates(CandidateFilter{State: "Alaska", Office: "Governor"})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}

	got, err = s.ListCandidates(CandidateFilter{ElectionYear: "2020"})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 1 || got[0].CandidateName != "Di" {
		t.Fatalf("year filter returned %+v", got)
	}

	got, err = s.ListCandidates(CandidateFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit ignored, got %d records", len(got))
	}
}

func TestSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)

	report := &standardize.Report{
		RecordsIn:         10,
		RecordsOut:        8,
		DuplicatesRemoved: 2,
		UnmappedOffices:   []string{"Dogcatcher"},
	}
	id, err := s.SaveRun("Hawaii", report)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == 0 {
		t.Fatal("run id must not be zero")
	}

	run, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil {
		t.Fatal("run not found after save")
	}
	if run.State != "Hawaii" || run.Report.RecordsOut != 8 {
		t.Errorf("round-tripped run = %+v", run)
	}
	if len(run.Report.UnmappedOffices) != 1 {
		t.Errorf("report lost unmapped offices: %+v", run.Report)
	}

	if _, err := s.SaveRun("Alaska", &standardize.Report{}); err != nil {
		t.Fatalf("second SaveRun: %v", err)
	}

	runs, err := s.ListRuns("", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].State != "Alaska" {
		t.Errorf("ListRuns = %+v, want newest first", runs)
	}

	runs, err = s.ListRuns("Hawaii", 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].State != "Hawaii" {
		t.Errorf("state filter returned %+v", runs)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	run, err := s.GetRun(999)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run != nil {
		t.Errorf("got %+v, want nil for a missing run", run)
	}
}
