package address

import "sort"

// usps is the closed set of two-letter USPS state codes.
var usps = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true,
	"CO": true, "CT": true, "DE": true, "FL": true, "GA": true,
	"HI": true, "ID": true, "IL": true, "IN": true, "IA": true,
	"KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true,
	"MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VT": true,
	"VA": true, "WA": true, "WV": true, "WI": true, "WY": true,
}

// stateCodes maps full state names (uppercased) to USPS codes.
var stateCodes = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR",
	"CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE",
	"FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI", "IDAHO": "ID",
	"ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS",
	"KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD",
	"MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS",
	"MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV",
	"NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM", "NEW YORK": "NY",
	"NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK",
	"OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC",
	"SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT",
	"VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA", "WEST VIRGINIA": "WV",
	"WISCONSIN": "WI", "WYOMING": "WY",
}

// stateNamesByLength lists full state names longest first, so "West
// Virginia" is matched before the "Virginia" it contains.
var stateNamesByLength = func() []string {
	names := make([]string, 0, len(stateCodes))
	for name := range stateCodes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

// nonStateAbbrevs are two-letter tokens that appear in street text and must
// never be read as state codes even though they collide with USPS codes
// (e.g. "DR" is not a code, but "CT", "LA", "OR", "IN" are).
var nonStateAbbrevs = map[string]bool{
	"ST": true, "RD": true, "DR": true, "LN": true, "CT": true,
	"PL": true, "NE": true, "NW": true, "SE": true, "SW": true,
	"PO": true, "RR": true, "HC": true,
}

// streetAbbrevs normalizes common street-type words to their USPS
// abbreviated form during street cleanup.
var streetAbbrevs = map[string]string{
	"STREET": "St", "AVENUE": "Ave", "BOULEVARD": "Blvd", "DRIVE": "Dr",
	"ROAD": "Rd", "LANE": "Ln", "COURT": "Ct", "CIRCLE": "Cir",
	"PLACE": "Pl", "HIGHWAY": "Hwy", "PARKWAY": "Pkwy", "TERRACE": "Ter",
	"TRAIL": "Trl", "SQUARE": "Sq", "LOOP": "Loop", "WAY": "Way",
}

// ToUSPS converts a state name or code to its USPS two-letter code.
// Returns "" when the input is not a recognized state.
func ToUSPS(state string) string {
	s := normalizeUpper(state)
	if s == "" {
		return ""
	}
	if len(s) == 2 && usps[s] {
		return s
	}
	return stateCodes[s]
}

// StateName returns the full state name for a USPS code, or "" if unknown.
func StateName(code string) string {
	c := normalizeUpper(code)
	for name, uspsCode := range stateCodes {
		if uspsCode == c {
			return titleCaseState(name)
		}
	}
	return ""
}
