package standardize

import "strings"

// Record is one candidate filing. Raw* fields arrive from ingestion and are
// never modified; the engine only adds or overwrites enriched fields.
type Record struct {
	// Raw input from the state filing file.
	RawName    string `json:"raw_name"`
	RawOffice  string `json:"raw_office"`
	RawParty   string `json:"raw_party"`
	RawAddress string `json:"raw_address"`

	// Election context.
	State        string `json:"state"`
	County       string `json:"county,omitempty"`
	ElectionYear string `json:"election_year"`
	ElectionDate string `json:"election_date,omitempty"`

	// Enriched identity.
	StableID string `json:"stable_id,omitempty"`

	// Enriched candidate fields.
	CandidateName string `json:"candidate_name,omitempty"`
	Office        string `json:"office,omitempty"`
	SourceOffice  string `json:"source_office,omitempty"`
	District      string `json:"district,omitempty"`
	Party         string `json:"party,omitempty"`
	SourceParty   string `json:"source_party,omitempty"`

	// Enriched address fields.
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	AddressState string `json:"address_state,omitempty"`
	Zip          string `json:"zip,omitempty"`

	// Classification audit.
	OfficeConfidence float64 `json:"office_confidence,omitempty"`
	PartyConfidence  float64 `json:"party_confidence,omitempty"`

	Phone string `json:"phone,omitempty"`
}

// Valid reports whether the record is a real filing. Placeholder rows lack
// all of candidate name, office and election year and are excluded before
// identity assignment. A record missing some of the three still passes; the
// missing fields degrade its identity key instead.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.RawName) != "" ||
		strings.TrimSpace(r.RawOffice) != "" ||
		strings.TrimSpace(r.ElectionYear) != ""
}
