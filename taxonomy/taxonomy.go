// Package taxonomy classifies free-text labels into closed national
// taxonomies (offices, parties) with confidence scoring. Classification is
// deterministic: exact alias match first, then whole-word keyword match,
// then a preserved unmapped fallback.
package taxonomy

import (
	"fmt"
	"strings"
)

// Rule identifies which strategy produced a classification.
type Rule string

const (
	RuleExact    Rule = "exact"
	RuleKeyword  Rule = "keyword"
	RuleUnmapped Rule = "unmapped"
)

// Keyword-match confidence bounds. Exact matches are always 1.0; keyword
// matches never reach it.
const (
	minKeywordConfidence = 0.5
	maxKeywordConfidence = 0.9499
)

// Entry maps one canonical category to its known alias strings. Aliases are
// matched case-insensitively with whitespace normalized.
type Entry struct {
	Canonical string   `json:"canonical"`
	Aliases   []string `json:"aliases"`
}

// Result is the outcome of classifying one label. Rule == RuleUnmapped means
// Canonical holds the cleaned-but-unmapped raw label and Confidence is 0.
type Result struct {
	Canonical  string  `json:"canonical"`
	Confidence float64 `json:"confidence"`
	Rule       Rule    `json:"rule"`
}

// Matched reports whether the label classified into the closed taxonomy.
func (r Result) Matched() bool {
	return r.Rule != RuleUnmapped
}

// Table is an ordered closed taxonomy. Entry order is the canonical priority
// order: when two categories keyword-match with the same alias length, the
// earlier entry wins.
type Table struct {
	name    string
	entries []Entry
	exact   map[string]string
	stemmer *Stemmer
}

// NewTable builds a classification table. An empty entry set is a hard
// error: the classifier cannot produce any canonical output without one.
func NewTable(name string, entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("taxonomy table %q is empty", name)
	}

	exact := make(map[string]string)
	for _, e := range entries {
		if e.Canonical == "" {
			return nil, fmt.Errorf("taxonomy table %q has an entry without a canonical name", name)
		}
		exact[NormalizeLabel(e.Canonical)] = e.Canonical
		for _, alias := range e.Aliases {
			key := NormalizeLabel(alias)
			if key == "" {
				continue
			}
			// First definition wins so priority order also resolves
			// alias collisions between categories.
			if _, ok := exact[key]; !ok {
				exact[key] = e.Canonical
			}
		}
	}

	return &Table{
		name:    name,
		entries: entries,
		exact:   exact,
		stemmer: NewStemmer(),
	}, nil
}

// Name returns the table's domain name ("offices", "parties").
func (t *Table) Name() string {
	return t.name
}

// Entries returns the table's canonical priority order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Classify maps a raw label to a canonical category. First match wins:
// exact alias (confidence 1.0), then longest whole-word keyword alias
// (confidence scaled by coverage), then the unmapped fallback.
func (t *Table) Classify(raw string) Result {
	cleaned := CleanLabel(raw)
	normalized := NormalizeLabel(raw)
	if normalized == "" {
		return Result{Canonical: cleaned, Confidence: 0, Rule: RuleUnmapped}
	}

	if canonical, ok := t.exact[normalized]; ok {
		return Result{Canonical: canonical, Confidence: 1.0, Rule: RuleExact}
	}

	if canonical, matchedLen, ok := t.keywordMatch(normalized); ok {
		conf := float64(matchedLen) / float64(len(normalized))
		if conf < minKeywordConfidence {
			conf = minKeywordConfidence
		}
		if conf > maxKeywordConfidence {
			conf = maxKeywordConfidence
		}
		return Result{Canonical: canonical, Confidence: conf, Rule: RuleKeyword}
	}

	return Result{Canonical: cleaned, Confidence: 0, Rule: RuleUnmapped}
}

// keywordMatch finds the category whose alias appears as a whole-word run
// inside the label. The longest matched alias wins; entry order breaks ties.
func (t *Table) keywordMatch(normalized string) (canonical string, matchedLen int, ok bool) {
	labelTokens := strings.Fields(normalized)
	labelStems := t.stemmer.StemTokens(labelTokens)

	best := -1
	for _, e := range t.entries {
		for _, alias := range append([]string{e.Canonical}, e.Aliases...) {
			aliasNorm := NormalizeLabel(alias)
			if aliasNorm == "" {
				continue
			}
			if !containsTokenRun(labelStems, t.stemmer.StemTokens(strings.Fields(aliasNorm))) {
				continue
			}
			// Strictly greater keeps the earlier entry on ties.
			if len(aliasNorm) > best {
				best = len(aliasNorm)
				canonical = e.Canonical
			}
		}
	}

	if best < 0 {
		return "", 0, false
	}
	return canonical, best, true
}

// containsTokenRun reports whether needle occurs as a consecutive run of
// whole tokens inside haystack.
func containsTokenRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// NormalizeLabel lowercases a label, strips surrounding punctuation noise
// and collapses whitespace. Used for all matching.
func NormalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, `"'.,;:`)
	s = strings.NewReplacer(".", "", ",", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// CleanLabel tidies a label for preservation without changing its case:
// trims, collapses whitespace, drops a trailing comma.
func CleanLabel(s string) string {
	s = strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
	return strings.TrimSuffix(s, ",")
}
