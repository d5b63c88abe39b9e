// Package address decomposes raw filing address strings into street, city,
// USPS state code and ZIP. Extraction runs as a fixed-order state machine
// over a single residual string: every substring a stage consumes is removed
// before the next stage runs, so fields are mutually exclusive.
package address

import (
	"regexp"
	"strings"
)

// Parsed is a decomposed address. StateBackfilled records that StateCode
// came from the record's election state rather than the address text.
type Parsed struct {
	Street          string `json:"street"`
	City            string `json:"city"`
	StateCode       string `json:"state_code"`
	Zip             string `json:"zip"`
	StateBackfilled bool   `json:"state_backfilled,omitempty"`
}

var (
	zipPattern       = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	boxNumberPattern = regexp.MustCompile(`(?i)\bBOX\s*#?\s*$`)

	statePatterns = []*regexp.Regexp{
		// "Street, City, AL," / "Street, City, AL"
		regexp.MustCompile(`,\s*([A-Za-z]{2})\s*,?\s*$`),
		// "Street, City, AL 12345" before a still-present ZIP
		regexp.MustCompile(`,\s*([A-Za-z]{2})\s+\d{5}`),
		// "Street, City, AL, ZIP"
		regexp.MustCompile(`,\s*([A-Za-z]{2})\s*,`),
		// trailing bare code: "... Honolulu HI"
		regexp.MustCompile(`\s([A-Za-z]{2})\s*$`),
	}

	punctRun   = regexp.MustCompile(`[.,;]+\s*$`)
	commaRun   = regexp.MustCompile(`,\s*,+`)
	spaceRun   = regexp.MustCompile(`\s+`)
	trailingNo = regexp.MustCompile(`^\d+$`)
)

// streetSuffixes terminate a trailing city-word run in comma-less addresses.
var streetSuffixes = map[string]bool{
	"ST": true, "STREET": true, "RD": true, "ROAD": true, "DR": true,
	"DRIVE": true, "AVE": true, "AVENUE": true, "BLVD": true,
	"BOULEVARD": true, "LN": true, "LANE": true, "CT": true, "COURT": true,
	"PL": true, "PLACE": true, "WAY": true, "CIR": true, "CIRCLE": true,
	"HWY": true, "HIGHWAY": true, "PKWY": true, "PARKWAY": true,
	"LOOP": true, "TRL": true, "TRAIL": true, "BOX": true,
}

// Parser decomposes addresses with per-state pre-processing hooks. The zero
// set of hooks is valid; NewParser registers the shipped ones. Parser is
// stateless between calls and safe for concurrent use.
type Parser struct {
	hooks map[string]PreprocessFunc
}

// NewParser builds a parser with the default state hooks registered.
func NewParser() *Parser {
	p := &Parser{hooks: make(map[string]PreprocessFunc)}
	registerDefaultHooks(p)
	return p
}

// RegisterHook installs a pre-processing hook for a state (full name or
// USPS code). New states are additive configuration, not new control flow.
func (p *Parser) RegisterHook(state string, fn PreprocessFunc) {
	p.hooks[hookKey(state)] = fn
}

// Parse decomposes one raw address. electionState (full name or code) keys
// the pre-processing hook and backfills the state code when the address
// itself does not carry one. Extraction never fails; fields that cannot be
// extracted are left empty and fall through to backfill.
func (p *Parser) Parse(raw, electionState string) Parsed {
	var out Parsed

	residual := strings.TrimSpace(raw)
	if hook, ok := p.hooks[hookKey(electionState)]; ok && residual != "" {
		residual = strings.TrimSpace(hook(residual))
	}

	if residual != "" {
		out.Zip, residual = extractZip(residual)
		out.StateCode, residual = extractState(residual)
		out.City, residual = extractCity(residual, out.StateCode)
		out.Street = cleanStreet(residual)
	}

	if out.StateCode == "" {
		if code := ToUSPS(electionState); code != "" {
			out.StateCode = code
			out.StateBackfilled = true
		}
	}
	return out
}

// extractZip finds the last ZIP-shaped token that is not a PO Box number and
// removes it from the residual.
func extractZip(residual string) (zip, rest string) {
	locs := zipPattern.FindAllStringIndex(residual, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		start, end := locs[i][0], locs[i][1]
		candidate := residual[start:end]
		if isPOBoxNumber(residual, start) {
			continue
		}
		rest = strings.TrimSpace(residual[:start] + residual[end:])
		rest = strings.TrimRight(rest, ", ")
		return candidate, rest
	}
	return "", residual
}

// isPOBoxNumber reports whether the ZIP-shaped token at start is actually a
// box number: directly preceded by "PO Box", "RR n Box" or "HC n Box". A
// real ZIP after "PO Box 524" has the box number in between and is kept.
func isPOBoxNumber(residual string, start int) bool {
	return boxNumberPattern.MatchString(residual[:start])
}

// extractState finds a USPS code or full state name and removes it.
func extractState(residual string) (code, rest string) {
	// Full state names first so "North Dakota" is not read as code "ND"
	// plus leftover text.
	upper := strings.ToUpper(residual)
	for _, name := range stateNamesByLength {
		uspsCode := stateCodes[name]
		idx := strings.LastIndex(upper, name)
		if idx < 0 {
			continue
		}
		if !wholeWordAt(upper, idx, len(name)) {
			continue
		}
		// Only a trailing state name counts; "Indiana Ave" stays street text.
		if strings.Trim(upper[idx+len(name):], " ,.") != "" {
			continue
		}
		rest = strings.TrimSpace(residual[:idx] + residual[idx+len(name):])
		rest = strings.TrimRight(rest, ", ")
		return uspsCode, rest
	}

	for _, pat := range statePatterns {
		for _, m := range pat.FindAllStringSubmatchIndex(residual, -1) {
			candidate := strings.ToUpper(residual[m[2]:m[3]])
			if nonStateAbbrevs[candidate] || !usps[candidate] {
				continue
			}
			rest = strings.TrimSpace(residual[:m[2]] + residual[m[3]:])
			rest = strings.TrimRight(strings.TrimSpace(strings.Trim(rest, ",")), ", ")
			rest = commaRun.ReplaceAllString(rest, ",")
			return candidate, rest
		}
	}
	return "", residual
}

func wholeWordAt(s string, idx, length int) bool {
	before := idx == 0 || !isLetter(s[idx-1])
	afterIdx := idx + length
	after := afterIdx >= len(s) || !isLetter(s[afterIdx])
	return before && after
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// extractCity resolves the residual's shape: one comma splits street/city,
// two or more commas put the city in the last segment, and the comma-less
// dense shape takes the trailing run of capitalized non-suffix words.
func extractCity(residual, stateCode string) (city, rest string) {
	residual = strings.Trim(strings.TrimSpace(residual), ",")
	if residual == "" {
		return "", ""
	}

	parts := splitNonEmpty(residual, ",")
	switch {
	case len(parts) >= 2:
		city = strings.TrimSpace(parts[len(parts)-1])
		rest = strings.TrimSpace(strings.Join(parts[:len(parts)-1], ","))
	default:
		city, rest = cityFromDenseShape(residual, stateCode)
	}

	if !validCity(city) {
		return "", residual
	}
	return cleanCity(city), rest
}

// cityFromDenseShape handles "1234 Spruce Rd Anchorage" style addresses:
// the trailing run of capitalized words after the last street suffix or
// number is the city.
func cityFromDenseShape(residual, stateCode string) (city, rest string) {
	words := strings.Fields(residual)
	if len(words) < 2 {
		return "", residual
	}

	cut := len(words)
	for i := len(words) - 1; i >= 1; i-- {
		w := strings.Trim(words[i], ".,")
		upper := strings.ToUpper(w)
		if streetSuffixes[upper] || trailingNo.MatchString(w) || upper == stateCode {
			break
		}
		if w == "" || !startsUpper(w) {
			break
		}
		cut = i
		if len(words)-cut == 3 {
			break
		}
	}
	if cut == len(words) {
		return "", residual
	}
	return strings.Join(words[cut:], " "), strings.Join(words[:cut], " ")
}

func startsUpper(w string) bool {
	return w[0] >= 'A' && w[0] <= 'Z'
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func validCity(city string) bool {
	city = strings.TrimSpace(city)
	if len(city) < 2 || trailingNo.MatchString(city) {
		return false
	}
	switch strings.ToUpper(city) {
	case "PO", "BOX", "APT", "STE", "UNIT", "SUITE", "FLOOR":
		return false
	}
	return strings.IndexFunc(city, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
}

func cleanCity(city string) string {
	city = spaceRun.ReplaceAllString(strings.TrimSpace(city), " ")
	if city == strings.ToUpper(city) || city == strings.ToLower(city) {
		return titleCaseState(city)
	}
	return city
}

// cleanStreet is the final stage: whatever remains is the street. Collapses
// whitespace, normalizes street-type words to USPS abbreviations and strips
// stray trailing punctuation.
func cleanStreet(residual string) string {
	residual = strings.Trim(strings.TrimSpace(residual), ",")
	if residual == "" {
		return ""
	}

	words := strings.Fields(residual)
	for i, w := range words {
		bare := strings.Trim(w, ".,")
		if abbr, ok := streetAbbrevs[strings.ToUpper(bare)]; ok {
			words[i] = abbr
		}
	}
	street := strings.Join(words, " ")
	street = punctRun.ReplaceAllString(street, "")
	return strings.TrimSpace(street)
}

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(strings.TrimSpace(s)), " "))
}

// titleCaseState renders an uppercased name in display case ("NEW CASTLE"
// -> "New Castle").
func titleCaseState(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
