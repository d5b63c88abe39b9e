package address

import (
	"regexp"
	"strings"
)

// PreprocessFunc rewrites a raw address before generic parsing. Hooks are
// keyed by election state; the default is no pre-processing.
type PreprocessFunc func(address string) string

var (
	flAbbrev      = regexp.MustCompile(`(?i)\bFLA\.?\b`)
	trailingPunct = regexp.MustCompile(`[.,;]+$`)
	akDenseComma  = regexp.MustCompile(`(?i)\b(AK)\.\b`)
	ruralRoute    = regexp.MustCompile(`(?i)\bR\.?\s?R\.?\s*#?\s*(\d+)\b`)
	highwayRoute  = regexp.MustCompile(`(?i)\bH\.?\s?C\.?\s*#?\s*(\d+)\b`)
)

func hookKey(state string) string {
	// Accept either the full name or the USPS code as the registry key.
	if code := ToUSPS(state); code != "" {
		return code
	}
	return normalizeUpper(state)
}

// registerDefaultHooks installs the shipped per-state rules. Each rule fixes
// a formatting habit of that state's filing exports that generic parsing
// would misread.
func registerDefaultHooks(p *Parser) {
	p.RegisterHook("Florida", cleanFlorida)
	p.RegisterHook("Alaska", cleanAlaska)
	p.RegisterHook("Colorado", cleanColorado)
}

// cleanFlorida expands the "Fla." abbreviation and drops trailing
// punctuation Florida exports carry.
func cleanFlorida(address string) string {
	address = flAbbrev.ReplaceAllString(address, "Florida")
	address = trailingPunct.ReplaceAllString(address, "")
	return collapseSpaces(address)
}

// cleanAlaska normalizes the dotted state code some Alaska filings use and
// collapses the double spaces common in their fixed-width exports.
func cleanAlaska(address string) string {
	address = akDenseComma.ReplaceAllString(address, "$1")
	return collapseSpaces(address)
}

// cleanColorado normalizes dotted rural-route prefixes ("R.R. 2 Box 315",
// "H.C. 64") to the plain RR/HC forms the box-number guard recognizes.
func cleanColorado(address string) string {
	address = ruralRoute.ReplaceAllString(address, "RR $1")
	address = highwayRoute.ReplaceAllString(address, "HC $1")
	return collapseSpaces(address)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
