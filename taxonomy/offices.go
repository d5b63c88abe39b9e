package taxonomy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// officeEntries is the canonical priority order for office classification:
// federal first, then statewide executive, state legislative, county,
// municipal, judicial. Keyword ties resolve to the earlier entry, so a broad
// local keyword never shadows a narrower federal one.
var officeEntries = []Entry{
	{Canonical: "US President", Aliases: []string{
		"president of the united states", "president of united states",
		"us president", "united states president",
		"president and vice president", "president/vice president",
	}},
	{Canonical: "US Senate", Aliases: []string{
		"us senator", "united states senator", "us senate",
		"united states senate", "u s senator",
	}},
	{Canonical: "US House", Aliases: []string{
		"us representative", "united states representative",
		"us house", "united states house",
		"us house of representatives", "united states house of representatives",
		"representative in congress", "member of congress", "congress",
	}},
	{Canonical: "Governor", Aliases: []string{"governor", "governor and lieutenant governor"}},
	{Canonical: "Lieutenant Governor", Aliases: []string{"lieutenant governor", "lt governor", "lt gov"}},
	{Canonical: "Secretary of State", Aliases: []string{"secretary of state"}},
	{Canonical: "Attorney General", Aliases: []string{"attorney general", "state attorney general"}},
	{Canonical: "State Treasurer", Aliases: []string{"state treasurer", "treasurer of state"}},
	{Canonical: "State Auditor", Aliases: []string{"state auditor", "auditor of state", "auditor general"}},
	{Canonical: "State Senate", Aliases: []string{
		"state senator", "state senate", "senate district", "senator", "senate",
	}},
	{Canonical: "State House", Aliases: []string{
		"state representative", "state house", "house of representatives",
		"house district", "state assembly", "general assembly", "representative",
		"house", "assembly",
	}},
	{Canonical: "State Board of Education", Aliases: []string{
		"state board of education", "board of education",
	}},
	{Canonical: "County Commission", Aliases: []string{
		"county commissioner", "county commission", "board of commissioners",
	}},
	{Canonical: "County Council", Aliases: []string{"county council", "county council member"}},
	{Canonical: "County Clerk", Aliases: []string{"county clerk", "clerk of court", "circuit clerk"}},
	{Canonical: "Sheriff", Aliases: []string{"sheriff", "county sheriff"}},
	{Canonical: "Prosecuting Attorney", Aliases: []string{
		"prosecuting attorney", "county attorney", "district attorney", "state's attorney",
	}},
	{Canonical: "Assessor", Aliases: []string{"assessor", "county assessor"}},
	{Canonical: "Coroner", Aliases: []string{"coroner", "county coroner"}},
	{Canonical: "Mayor", Aliases: []string{"mayor"}},
	{Canonical: "City Council", Aliases: []string{
		"city council", "city councilmember", "councilmember", "city commissioner", "alderman",
	}},
	{Canonical: "School Board", Aliases: []string{
		"school board", "school board member", "school district", "board of school directors",
	}},
	{Canonical: "Judge", Aliases: []string{
		"judge", "justice", "district judge", "circuit judge", "probate judge",
		"magistrate", "justice of the peace", "supreme court",
	}},
	{Canonical: "Clerk/Treasurer", Aliases: []string{"clerk treasurer", "clerk/treasurer"}},
}

// StatewideOffices are canonical offices elected by the whole state. A
// candidate for one of these filed once per county collapses to one record.
var StatewideOffices = map[string]bool{
	"US President":        true,
	"US Senate":           true,
	"Governor":            true,
	"Lieutenant Governor": true,
	"Secretary of State":  true,
	"Attorney General":    true,
	"State Treasurer":     true,
	"State Auditor":       true,
}

// districtBearing are offices whose labels carry a district token that must
// be extracted into its own field.
var districtBearing = map[string]bool{
	"US House":     true,
	"State House":  true,
	"State Senate": true,
}

// districtPatterns extract a district token from an office label. Ordered
// from most to least specific; group 1 captures the token. Covers numeric
// districts, Alaska letter codes, Hawaii roman numerals and At-Large.
var districtPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(district:?\s*([0-9]+[a-z]?)\)`),
	regexp.MustCompile(`(?i)\(dist:?\s*([0-9]+)\)`),
	regexp.MustCompile(`(?i)\bdistrict\s+no\.?\s*([0-9]+)`),
	regexp.MustCompile(`(?i)\b([0-9]+)(?:st|nd|rd|th)?\s+(?:congressional\s+)?district\b`),
	regexp.MustCompile(`(?i)\b(?:congressional\s+)?district\s*([0-9]+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\bsenate\s+district\s+([a-z])\b`),
	regexp.MustCompile(`(?i),?\s*\bdist\.?\s+([0-9]+)\b`),
	regexp.MustCompile(`(?i),?\s*\bdist\.?\s+([ivxlcdm]+)\b`),
	regexp.MustCompile(`(?i)\b(at[- ]large)\b`),
	regexp.MustCompile(`(?i)\b([0-9]+)(?:st|nd|rd|th)?\s+(?:congress|senate)\b`),
	regexp.MustCompile(`(?i)\bseat\s+([0-9]+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\bposition\s+([0-9]+)\b`),
	regexp.MustCompile(`(?i)\(([a-z]?[0-9]+)\)`),
}

// districtStripPatterns remove consumed district text (and similar seat/ward
// qualifiers) from the label before classification.
var districtStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[-,]?\s*\(?district:?\s*(?:no\.?\s*)?[0-9]+[a-z]?\)?\s*$`),
	regexp.MustCompile(`(?i)\s*[-,]?\s*[0-9]+(?:st|nd|rd|th)?\s+(?:congressional\s+)?district\s*$`),
	regexp.MustCompile(`(?i)\s*[-,]?\s*district\s+[a-z0-9]+\s*$`),
	regexp.MustCompile(`(?i)\s*,?\s*dist\.?\s+[0-9ivxlcdm]+\s*$`),
	regexp.MustCompile(`(?i)\s*,?\s*at[- ]large\s*$`),
	regexp.MustCompile(`(?i)\s*\([a-z]?[0-9]+[a-z]?\)\s*$`),
	regexp.MustCompile(`(?i)\s*\(dist:?\s*[0-9]+\)\s*$`),
	regexp.MustCompile(`(?i)\s*(?:seat|position|place|ward|division)\s+[a-z]?[0-9]+[a-z]?\s*$`),
}

// compoundSecondary matches a trailing secondary office in a compound label,
// e.g. "Governor / Lieutenant Governor".
var compoundSecondary = regexp.MustCompile(`(?i)\s*/\s*(?:lieutenant\s+governor|lt\.?\s*gov(?:ernor)?|vice\s+president)\s*$`)

// OfficeResult is an office classification plus the district token the label
// carried, if any.
type OfficeResult struct {
	Result
	District string `json:"district,omitempty"`
}

// OfficeClassifier layers office-specific rules (compound truncation,
// district extraction) over generic table classification.
type OfficeClassifier struct {
	table *Table
}

// NewOfficeClassifier builds the office classifier over the shipped table.
func NewOfficeClassifier() *OfficeClassifier {
	t, err := NewTable("offices", officeEntries)
	if err != nil {
		// The shipped table is non-empty by construction.
		panic(err)
	}
	return &OfficeClassifier{table: t}
}

// NewOfficeClassifierWithTable builds the classifier over an external table,
// keeping the alias surface configuration-only.
func NewOfficeClassifierWithTable(t *Table) (*OfficeClassifier, error) {
	if t == nil {
		return nil, fmt.Errorf("office classifier requires a table")
	}
	return &OfficeClassifier{table: t}, nil
}

// Table exposes the underlying priority-ordered table.
func (oc *OfficeClassifier) Table() *Table {
	return oc.table
}

// Classify maps a raw office label to its canonical office and district.
// Compound labels are truncated to the primary office first; district tokens
// are extracted and stripped before classification so "House District 06"
// classifies as State House with district "06".
func (oc *OfficeClassifier) Classify(raw string) OfficeResult {
	label := CleanLabel(raw)
	label = compoundSecondary.ReplaceAllString(label, "")

	district := extractDistrict(label)
	for _, p := range districtStripPatterns {
		label = p.ReplaceAllString(label, "")
	}
	label = CleanLabel(label)

	res := oc.table.Classify(label)

	if res.Matched() && !districtBearing[res.Canonical] {
		district = ""
	}
	return OfficeResult{Result: res, District: district}
}

// extractDistrict pulls the district token out of an office label.
func extractDistrict(label string) string {
	for _, p := range districtPatterns {
		if m := p.FindStringSubmatch(label); len(m) == 2 {
			return CleanDistrict(m[1])
		}
	}
	return ""
}

// CleanDistrict normalizes a district token: float artifacts ("12.0")
// reduce to the integer form, numerics keep leading-zero-free form except
// when already zero-padded, and text tokens like "At-Large" title-case.
func CleanDistrict(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		return ""
	}

	if strings.Contains(d, ".") {
		if f, err := strconv.ParseFloat(d, 64); err == nil {
			return strconv.Itoa(int(f))
		}
	}
	if _, err := strconv.Atoi(d); err == nil {
		return d
	}

	lower := strings.ToLower(d)
	if lower == "at-large" || lower == "at large" {
		return "At-Large"
	}
	return strings.ToUpper(d)
}
