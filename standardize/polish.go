package standardize

import (
	"regexp"
	"strings"
)

// nameAcronyms keep their casing when a name is re-cased. Covers generational
// suffixes, credentials and initialisms common in filing exports.
var nameAcronyms = map[string]string{
	"II": "II", "III": "III", "IV": "IV",
	"JR": "Jr.", "JR.": "Jr.", "SR": "Sr.", "SR.": "Sr.",
	"MD": "MD", "M.D.": "M.D.", "JD": "JD", "J.D.": "J.D.",
	"DDS": "DDS", "PHD": "PhD", "PH.D.": "Ph.D.",
	"US": "US", "U.S.": "U.S.", "USA": "USA",
}

// nameParticles stay lowercase inside a name unless they lead it.
var nameParticles = map[string]string{
	"VAN": "van", "VON": "von", "DE": "de", "DEL": "del", "DELLA": "della",
	"DI": "di", "LA": "la", "LE": "le",
}

var (
	partyLetter = regexp.MustCompile(`\s*\(([A-Za-z]{1,3})\)\s*$`)
	phoneDigits = regexp.MustCompile(`\d`)
	dateCompact = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(?:-[A-Z]{3,4})?$`)
	dateISO     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// partyLetterCodes maps the letter codes states embed in candidate names to
// the raw party label the taxonomy understands.
var partyLetterCodes = map[string]string{
	"R": "Republican", "D": "Democratic", "L": "Libertarian",
	"G": "Green", "I": "Independent", "C": "Constitution",
	"NP": "Nonpartisan", "NPA": "Nonpartisan", "W": "Write-In",
}

// PolishName re-cases a shouting or lowercased candidate name into display
// form, preserving acronyms, generational suffixes and name particles.
// Mixed-case input is trusted and only whitespace-normalized.
func PolishName(name string) string {
	name = strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
	if name == "" {
		return ""
	}
	if name != strings.ToUpper(name) && name != strings.ToLower(name) {
		return name
	}

	words := strings.Split(name, " ")
	for i, w := range words {
		upper := strings.ToUpper(w)
		if fixed, ok := nameAcronyms[upper]; ok {
			words[i] = fixed
			continue
		}
		if p, ok := nameParticles[upper]; ok && i > 0 {
			words[i] = p
			continue
		}
		words[i] = properCaseWord(w)
	}
	return strings.Join(words, " ")
}

// properCaseWord capitalizes one name word, honoring the internal caps of
// hyphenated ("Smith-Jones"), apostrophe ("O'Brien") and "Mc" names.
func properCaseWord(w string) string {
	if w == "" {
		return w
	}
	for _, sep := range []string{"-", "'"} {
		if strings.Contains(w, sep) {
			parts := strings.Split(w, sep)
			for i, p := range parts {
				parts[i] = properCaseWord(p)
			}
			return strings.Join(parts, sep)
		}
	}
	lower := strings.ToLower(w)
	if strings.HasPrefix(lower, "mc") && len(lower) > 2 {
		return "Mc" + strings.ToUpper(lower[2:3]) + lower[3:]
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// ExtractPartyLetter strips a trailing party letter from a candidate name and
// returns the raw party label it stands for. Names without one come back
// unchanged with an empty party.
func ExtractPartyLetter(name string) (cleaned, rawParty string) {
	m := partyLetter.FindStringSubmatch(name)
	if m == nil {
		return name, ""
	}
	party, ok := partyLetterCodes[strings.ToUpper(m[1])]
	if !ok {
		return name, ""
	}
	return strings.TrimSpace(partyLetter.ReplaceAllString(name, "")), party
}

// delawareCounties expands the single-letter county codes Delaware exports.
var delawareCounties = map[string]string{
	"N": "New Castle", "K": "Kent", "S": "Sussex",
}

// PolishCounty normalizes a county value for display. Delaware's letter codes
// expand to the county name; everything else is whitespace-normalized and
// re-cased when shouting.
func PolishCounty(county, state string) string {
	county = strings.Join(strings.Fields(strings.TrimSpace(county)), " ")
	if county == "" {
		return ""
	}

	if strings.EqualFold(state, "Delaware") || strings.EqualFold(state, "DE") {
		if name, ok := delawareCounties[strings.ToUpper(county)]; ok {
			return name
		}
	}

	county = strings.TrimSuffix(county, " County")
	county = strings.TrimSuffix(county, " COUNTY")
	if county == strings.ToUpper(county) {
		words := strings.Fields(strings.ToLower(county))
		for i, w := range words {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		county = strings.Join(words, " ")
	}
	return county
}

// PolishElectionDate converts compact export dates ("20161108",
// "20161108-GEN") to ISO form. Already-ISO and unrecognized values pass
// through unchanged.
func PolishElectionDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" || dateISO.MatchString(date) {
		return date
	}
	if m := dateCompact.FindStringSubmatch(date); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	return date
}

// PolishPhone normalizes a ten-digit phone number to (XXX) XXX-XXXX. Numbers
// with any other digit count pass through unchanged.
func PolishPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	digits := strings.Join(phoneDigits.FindAllString(phone, -1), "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}
