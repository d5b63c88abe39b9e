package standardize

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func batchRecord(name, office, party, addr, state, county, year string) Record {
	return Record{
		RawName:      name,
		RawOffice:    office,
		RawParty:     party,
		RawAddress:   addr,
		State:        state,
		County:       county,
		ElectionYear: year,
	}
}

func TestStandardize_EndToEnd(t *testing.T) {
	o := NewOrchestrator(WithWorkers(2))

	records := []Record{
		batchRecord("JOHN SMITH", "U.S. Representative", "REP",
			"123 Main St, Honolulu, HI 96801", "Hawaii", "Honolulu", "2016"),
		batchRecord("Jane Doe", "Governor", "Democrat",
			"", "Delaware", "N", "2016"),
		// Same governor filed in a second county: statewide collapse.
		batchRecord("Jane Doe", "Governor", "Democrat",
			"", "Delaware", "K", "2016"),
		// Plain duplicate of the first record.
		batchRecord("JOHN SMITH", "U.S. Representative", "REP",
			"123 Main St, Honolulu, HI 96801", "Hawaii", "Honolulu", "2016"),
		// Placeholder row: no name, office or year.
		batchRecord("", "", "", "", "Hawaii", "", ""),
	}

	out, report := o.Standardize(records)

	if len(out) != 2 {
		t.Fatalf("got %d records out, want 2: %+v", len(out), out)
	}
	if report.RecordsIn != 5 || report.RecordsOut != 2 {
		t.Errorf("report counts = in %d out %d, want 5/2", report.RecordsIn, report.RecordsOut)
	}
	if report.InvalidFiltered != 1 {
		t.Errorf("InvalidFiltered = %d, want 1", report.InvalidFiltered)
	}
	if report.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", report.DuplicatesRemoved)
	}
	if report.StatewideCollapsed != 1 {
		t.Errorf("StatewideCollapsed = %d, want 1", report.StatewideCollapsed)
	}

	smith := out[0]
	if smith.Office != "US House" || smith.OfficeConfidence != 1.0 {
		t.Errorf("office = %q (conf %v), want US House at 1.0", smith.Office, smith.OfficeConfidence)
	}
	if smith.SourceOffice != "U.S. Representative" {
		t.Errorf("SourceOffice = %q, want the raw label preserved", smith.SourceOffice)
	}
	if smith.Party != "Republican" {
		t.Errorf("party = %q, want Republican", smith.Party)
	}
	if smith.CandidateName != "John Smith" {
		t.Errorf("CandidateName = %q, want John Smith", smith.CandidateName)
	}
	if smith.City != "Honolulu" || smith.AddressState != "HI" || smith.Zip != "96801" {
		t.Errorf("address = %q/%q/%q", smith.City, smith.AddressState, smith.Zip)
	}

	doe := out[1]
	if doe.Office != "Governor" {
		t.Errorf("office = %q, want Governor", doe.Office)
	}
	if doe.County != "" {
		t.Errorf("statewide survivor kept county %q, want cleared", doe.County)
	}
}

func TestStandardize_StatewideSingleCountyKeepsCounty(t *testing.T) {
	o := NewOrchestrator()

	out, _ := o.Standardize([]Record{
		batchRecord("Jane Doe", "Governor", "D", "", "Delaware", "K", "2016"),
	})
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].County != "Kent" {
		t.Errorf("County = %q, want Kent (no collapse happened)", out[0].County)
	}
}

func TestStandardize_UnmappedLabelsReported(t *testing.T) {
	o := NewOrchestrator()

	out, report := o.Standardize([]Record{
		batchRecord("A B", "Dogcatcher", "Rent Is Too High", "", "New York", "", "2016"),
	})

	if len(out) != 1 {
		t.Fatalf("unmapped labels must not drop the record")
	}
	if out[0].Office != "Dogcatcher" || out[0].OfficeConfidence != 0 {
		t.Errorf("unmapped office = %q (conf %v), want preserved at 0", out[0].Office, out[0].OfficeConfidence)
	}
	if len(report.UnmappedOffices) != 1 || report.UnmappedOffices[0] != "Dogcatcher" {
		t.Errorf("UnmappedOffices = %v", report.UnmappedOffices)
	}
	if len(report.UnmappedParties) != 1 {
		t.Errorf("UnmappedParties = %v", report.UnmappedParties)
	}
}

func TestStandardize_EmptyPartyNotReportedUnmapped(t *testing.T) {
	o := NewOrchestrator()

	_, report := o.Standardize([]Record{
		batchRecord("A B", "Governor", "", "", "Kansas", "", "2016"),
	})
	if len(report.UnmappedParties) != 0 {
		t.Errorf("empty party reported as unmapped: %v", report.UnmappedParties)
	}
}

func TestStandardize_AddressBackfillCounted(t *testing.T) {
	o := NewOrchestrator()

	out, report := o.Standardize([]Record{
		batchRecord("A B", "Governor", "D", "12 Elm St, Topeka", "Kansas", "", "2016"),
	})
	if report.AddressesBackfilled != 1 {
		t.Errorf("AddressesBackfilled = %d, want 1", report.AddressesBackfilled)
	}
	if out[0].AddressState != "KS" {
		t.Errorf("AddressState = %q, want KS", out[0].AddressState)
	}
}

func TestStandardize_PartyLetterInName(t *testing.T) {
	o := NewOrchestrator()

	out, _ := o.Standardize([]Record{
		batchRecord("Jane Doe (R)", "Governor", "", "", "Kansas", "", "2016"),
	})
	if out[0].CandidateName != "Jane Doe" {
		t.Errorf("CandidateName = %q, want letter stripped", out[0].CandidateName)
	}
	if out[0].Party != "Republican" {
		t.Errorf("Party = %q, want Republican backfilled from the name", out[0].Party)
	}
}

func TestStandardize_ExplicitPartyWinsOverNameLetter(t *testing.T) {
	o := NewOrchestrator()

	out, _ := o.Standardize([]Record{
		batchRecord("Jane Doe (R)", "Governor", "Libertarian", "", "Kansas", "", "2016"),
	})
	if out[0].Party != "Libertarian" {
		t.Errorf("Party = %q, the filed party must win", out[0].Party)
	}
}

func TestStandardize_Idempotent(t *testing.T) {
	o := NewOrchestrator()

	in := []Record{
		batchRecord("JOHN SMITH", "House District 06", "REP",
			"1234 Spruce Rd Anchorage, AK 99501", "Alaska", "", "2016"),
		batchRecord("Jane Doe", "Governor", "Democrat", "", "Delaware", "N", "2016"),
	}

	first, _ := o.Standardize(in)
	second, _ := o.Standardize(first)

	if len(first) != len(second) {
		t.Fatalf("second run changed the record count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d changed on re-run:\n first: %+v\nsecond: %+v", i, first[i], second[i])
		}
	}
}

func TestStandardize_FirstSeenWins(t *testing.T) {
	o := NewOrchestrator()

	out, _ := o.Standardize([]Record{
		batchRecord("Jane Doe", "Governor", "D", "100 First St, Dover, DE 19901", "Delaware", "", "2016"),
		batchRecord("Jane Doe", "Governor", "D", "999 Other Rd, Dover, DE 19901", "Delaware", "", "2016"),
	})
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].Street != "100 First St" {
		t.Errorf("survivor street = %q, the first-seen record must win", out[0].Street)
	}
}

func TestStandardize_InputOrderPreserved(t *testing.T) {
	o := NewOrchestrator(WithWorkers(8))

	var in []Record
	for i := 0; i < 50; i++ {
		in = append(in, batchRecord(
			fmt.Sprintf("Candidate %02d", i), "Governor", "D", "", "Kansas", "", "2016"))
	}

	out, _ := o.Standardize(in)
	if len(out) != 50 {
		t.Fatalf("got %d records, want 50", len(out))
	}
	for i, r := range out {
		if r.RawName != fmt.Sprintf("Candidate %02d", i) {
			t.Fatalf("record %d out of order: %q", i, r.RawName)
		}
	}
}

func TestStandardize_FakeBatchInvariants(t *testing.T) {
	gofakeit.Seed(11)
	o := NewOrchestrator(WithWorkers(4))

	offices := []string{
		"Governor", "U.S. Senator", "State Representative",
		"County Commissioner", "Dogcatcher",
	}
	parties := []string{"Republican", "Democrat", "Libertarian", "", "The Best Party"}

	var in []Record
	for i := 0; i < 300; i++ {
		in = append(in, batchRecord(
			gofakeit.Name(),
			offices[gofakeit.Number(0, len(offices)-1)],
			parties[gofakeit.Number(0, len(parties)-1)],
			gofakeit.Street()+", "+gofakeit.City()+", "+gofakeit.StateAbr()+" "+gofakeit.Zip(),
			"Ohio", "", "2024"))
	}

	out, report := o.Standardize(in)

	if got := report.RecordsIn - report.InvalidFiltered - report.DuplicatesRemoved - report.StatewideCollapsed; got != report.RecordsOut {
		t.Errorf("report does not balance: %+v", report)
	}
	if len(out) != report.RecordsOut {
		t.Errorf("len(out) = %d, report says %d", len(out), report.RecordsOut)
	}

	seen := map[string]bool{}
	for _, r := range out {
		if r.StableID == "" {
			t.Fatalf("record without stable ID: %+v", r)
		}
		if seen[r.StableID] {
			t.Fatalf("duplicate stable ID survived dedup: %s", r.StableID)
		}
		seen[r.StableID] = true
		if r.OfficeConfidence < 0 || r.OfficeConfidence > 1 {
			t.Fatalf("office confidence out of range: %v", r.OfficeConfidence)
		}
		if r.PartyConfidence < 0 || r.PartyConfidence > 1 {
			t.Fatalf("party confidence out of range: %v", r.PartyConfidence)
		}
	}
}
