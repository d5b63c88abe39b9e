package taxonomy

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// Stemmer reduces English tokens to their stems so keyword matching treats
// "commissioners" and "commissioner" as the same word. Results are cached;
// safe for concurrent use.
type Stemmer struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewStemmer creates a caching English stemmer.
func NewStemmer() *Stemmer {
	return &Stemmer{cache: make(map[string]string)}
}

// Stem returns the stem of a single token. Tokens snowball cannot process
// (numbers, single letters) are returned unchanged.
func (s *Stemmer) Stem(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return ""
	}

	s.mu.RLock()
	stem, ok := s.cache[token]
	s.mu.RUnlock()
	if ok {
		return stem
	}

	stem, err := snowball.Stem(token, "english", false)
	if err != nil || stem == "" {
		stem = token
	}

	s.mu.Lock()
	s.cache[token] = stem
	s.mu.Unlock()
	return stem
}

// StemTokens stems each token in order.
func (s *Stemmer) StemTokens(tokens []string) []string {
	stems := make([]string, len(tokens))
	for i, tok := range tokens {
		stems[i] = s.Stem(tok)
	}
	return stems
}
