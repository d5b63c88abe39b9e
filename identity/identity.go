// Package identity derives stable, content-addressed identifiers for
// candidate filing records and tracks duplicate identities across a batch.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IDLength is the number of hex characters kept from the digest. Truncation
// collisions are accepted; the Tracker is the safety net.
const IDLength = 12

// keySeparator joins the normalized key fields. Changing it changes every
// identity ever issued, so it is fixed.
const keySeparator = "|"

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// AssignID derives the stable identifier for a candidate record from its
// name, office, election year and state. Missing fields degrade the key but
// never fail: the derivation is total.
func AssignID(candidateName, office, electionYear, state string) string {
	key := strings.Join([]string{
		NormalizeField(candidateName),
		NormalizeField(state),
		NormalizeField(office),
		NormalizeYear(electionYear),
	}, keySeparator)

	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:IDLength]
}

// NormalizeField prepares one key field for hashing: lowercase, trimmed,
// internal whitespace collapsed, diacritics folded so "José" and "Jose"
// produce the same identity.
func NormalizeField(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeYear coerces an election year to its integer textual form.
// Spreadsheet ingestion frequently delivers years as floats ("2016.0"); both
// shapes must hash identically.
func NormalizeYear(year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	if n, err := strconv.Atoi(year); err == nil {
		return strconv.Itoa(n)
	}
	if f, err := strconv.ParseFloat(year, 64); err == nil {
		return strconv.Itoa(int(f))
	}
	return NormalizeField(year)
}
