package identity

import "sync"

// Tracker accumulates identity counts across a batch. The first record seen
// for an identity is canonical; later ones are duplicates. Safe for
// concurrent use so a parallel map over records can share one Tracker.
type Tracker struct {
	mu     sync.Mutex
	counts map[string]int
	first  map[string]int
}

// NewTracker creates an empty duplicate tracker.
func NewTracker() *Tracker {
	return &Tracker{
		counts: make(map[string]int),
		first:  make(map[string]int),
	}
}

// Observe records one occurrence of id at record index idx. It reports
// whether the record is a duplicate of an earlier one.
func (t *Tracker) Observe(id string, idx int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[id]++
	if t.counts[id] == 1 {
		t.first[id] = idx
		return false
	}
	return true
}

// Count returns how many times id has been observed.
func (t *Tracker) Count(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[id]
}

// FirstSeen returns the record index of the canonical occurrence of id.
func (t *Tracker) FirstSeen(id string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.first[id]
	return idx, ok
}

// Duplicates returns the total number of non-canonical observations.
func (t *Tracker) Duplicates() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for _, c := range t.counts {
		if c > 1 {
			total += c - 1
		}
	}
	return total
}

// UniqueIDs returns the number of distinct identities observed.
func (t *Tracker) UniqueIDs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counts)
}
