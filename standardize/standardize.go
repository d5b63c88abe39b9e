// Package standardize runs the full candidate standardization pipeline over a
// batch: placeholder filtering, identity assignment, office and party
// classification, address decomposition, statewide collapse and duplicate
// removal, with a batch report of everything that happened.
package standardize

import (
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/address"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/identity"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/taxonomy"
)

// Report summarizes one standardization batch.
type Report struct {
	RecordsIn           int      `json:"records_in"`
	RecordsOut          int      `json:"records_out"`
	InvalidFiltered     int      `json:"invalid_filtered"`
	DuplicatesRemoved   int      `json:"duplicates_removed"`
	StatewideCollapsed  int      `json:"statewide_collapsed"`
	AddressesBackfilled int      `json:"addresses_backfilled"`
	UnmappedOffices     []string `json:"unmapped_offices,omitempty"`
	UnmappedParties     []string `json:"unmapped_parties,omitempty"`
}

// Orchestrator wires the engine components together and runs batches.
type Orchestrator struct {
	offices   *taxonomy.OfficeClassifier
	parties   *taxonomy.Table
	addresses *address.Parser
	workers   int
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds the per-record worker pool.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithOfficeClassifier replaces the shipped office table, e.g. with one
// loaded from an external taxonomy file.
func WithOfficeClassifier(oc *taxonomy.OfficeClassifier) Option {
	return func(o *Orchestrator) {
		if oc != nil {
			o.offices = oc
		}
	}
}

// WithPartyTable replaces the shipped party table.
func WithPartyTable(t *taxonomy.Table) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.parties = t
		}
	}
}

// WithAddressParser replaces the default address parser, e.g. one with extra
// state hooks registered.
func WithAddressParser(p *address.Parser) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.addresses = p
		}
	}
}

// NewOrchestrator builds an orchestrator over the shipped taxonomies and the
// default address parser.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		offices:   taxonomy.NewOfficeClassifier(),
		parties:   taxonomy.NewPartyTable(),
		addresses: address.NewParser(),
		workers:   runtime.NumCPU(),
		logger:    slog.Default().With("component", "standardize"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Standardize runs the pipeline over one batch and returns the surviving
// records in input order plus the batch report. The input slice is not
// modified. Re-running Standardize on its own output (with the raw fields
// intact) produces the same enriched fields.
func (o *Orchestrator) Standardize(records []Record) ([]Record, *Report) {
	report := &Report{RecordsIn: len(records)}
	o.logger.Info("Starting standardization batch", "records", len(records))

	valid := o.filterPlaceholders(records, report)
	o.assignIdentities(valid)
	o.enrich(valid, report)
	out := o.dedupe(valid, report)

	report.RecordsOut = len(out)
	sort.Strings(report.UnmappedOffices)
	sort.Strings(report.UnmappedParties)

	o.logger.Info("Completed standardization batch",
		"records_in", report.RecordsIn,
		"records_out", report.RecordsOut,
		"invalid_filtered", report.InvalidFiltered,
		"duplicates_removed", report.DuplicatesRemoved,
		"statewide_collapsed", report.StatewideCollapsed)
	return out, report
}

// filterPlaceholders drops rows that are not real filings before any
// identity is assigned.
func (o *Orchestrator) filterPlaceholders(records []Record, report *Report) []Record {
	valid := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Valid() {
			report.InvalidFiltered++
			continue
		}
		valid = append(valid, r)
	}
	if report.InvalidFiltered > 0 {
		o.logger.Info("Filtered placeholder records", "count", report.InvalidFiltered)
	}
	return valid
}

// assignIdentities derives the stable ID for every record. IDs hash the raw
// name and office, so cosmetic cleanup later never moves a record's identity.
// Runs sequentially: first-seen order must follow batch order.
func (o *Orchestrator) assignIdentities(records []Record) {
	for i := range records {
		records[i].StableID = identity.AssignID(
			records[i].RawName,
			records[i].RawOffice,
			records[i].ElectionYear,
			records[i].State,
		)
	}
}

// enrich classifies offices and parties, decomposes addresses and polishes
// display fields on a bounded worker pool. Per-record work is independent;
// only the report serializes writes.
func (o *Orchestrator) enrich(records []Record, report *Report) {
	var (
		mu              sync.Mutex
		unmappedOffices = map[string]bool{}
		unmappedParties = map[string]bool{}
		backfilled      int
	)

	workers := o.workers
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				r := &records[i]
				officeUnmapped, partyUnmapped, addrBackfilled := o.enrichRecord(r)

				mu.Lock()
				if officeUnmapped != "" {
					unmappedOffices[officeUnmapped] = true
				}
				if partyUnmapped != "" {
					unmappedParties[partyUnmapped] = true
				}
				if addrBackfilled {
					backfilled++
				}
				mu.Unlock()
			}
		}()
	}
	for i := range records {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	report.AddressesBackfilled = backfilled
	for label := range unmappedOffices {
		report.UnmappedOffices = append(report.UnmappedOffices, label)
	}
	for label := range unmappedParties {
		report.UnmappedParties = append(report.UnmappedParties, label)
	}
}

// enrichRecord fills every enriched field of one record from its raw fields.
func (o *Orchestrator) enrichRecord(r *Record) (officeUnmapped, partyUnmapped string, addrBackfilled bool) {
	r.CandidateName = PolishName(r.RawName)

	// A party letter embedded in the name ("Jane Doe (R)") backfills a
	// missing raw party before classification.
	name, embedded := ExtractPartyLetter(r.CandidateName)
	r.CandidateName = name
	rawParty := r.RawParty
	if strings.TrimSpace(rawParty) == "" && embedded != "" {
		rawParty = embedded
	}

	office := o.offices.Classify(r.RawOffice)
	r.Office = office.Canonical
	r.SourceOffice = taxonomy.CleanLabel(r.RawOffice)
	r.District = office.District
	r.OfficeConfidence = office.Confidence
	if !office.Matched() {
		officeUnmapped = office.Canonical
	}

	party := o.parties.Classify(rawParty)
	r.Party = party.Canonical
	r.SourceParty = taxonomy.CleanLabel(r.RawParty)
	r.PartyConfidence = party.Confidence
	if !party.Matched() && strings.TrimSpace(rawParty) != "" {
		partyUnmapped = party.Canonical
	}

	parsed := o.addresses.Parse(r.RawAddress, r.State)
	r.Street = parsed.Street
	r.City = parsed.City
	r.AddressState = parsed.StateCode
	r.Zip = parsed.Zip
	addrBackfilled = parsed.StateBackfilled

	r.County = PolishCounty(r.County, r.State)
	r.ElectionDate = PolishElectionDate(r.ElectionDate)
	r.Phone = PolishPhone(r.Phone)
	return officeUnmapped, partyUnmapped, addrBackfilled
}

// dedupe removes duplicate identities, first seen wins. Statewide offices
// collapse the per-county filings into one record with the county cleared;
// everything else counts as a plain duplicate.
func (o *Orchestrator) dedupe(records []Record, report *Report) []Record {
	tracker := identity.NewTracker()
	out := make([]Record, 0, len(records))
	survivorAt := make(map[string]int)

	for i, r := range records {
		if !tracker.Observe(r.StableID, i) {
			survivorAt[r.StableID] = len(out)
			out = append(out, r)
			continue
		}

		if taxonomy.StatewideOffices[r.Office] {
			report.StatewideCollapsed++
			// Filed once per county: the surviving record represents
			// the whole state, so a county no longer applies.
			if idx, ok := survivorAt[r.StableID]; ok && out[idx].County != r.County {
				out[idx].County = ""
			}
			continue
		}
		report.DuplicatesRemoved++
	}
	return out
}
