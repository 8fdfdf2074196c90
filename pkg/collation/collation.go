// Package collation wraps golang.org/x/text/collate in a mutex-guarded
// comparator. Collators keep internal buffers, so a bare *collate.Collator
// must not be shared across goroutines; the archive's read paths sort titles
// concurrently.
package collation

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator is a locale-aware, case- and accent-insensitive total order
// over strings, safe for concurrent use.
type Comparator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// New creates a Comparator for the given language tag.
func New(tag language.Tag) *Comparator {
	return &Comparator{
		c: collate.New(tag, collate.Loose),
	}
}

// NewSpanish creates the comparator used for the archive's corpus.
func NewSpanish() *Comparator {
	return New(language.Spanish)
}

// Compare returns a negative value when a sorts before b, zero when they
// are equivalent, and a positive value otherwise.
func (cmp *Comparator) Compare(a, b string) int {
	cmp.mu.Lock()
	defer cmp.mu.Unlock()
	return cmp.c.CompareString(a, b)
}

// SortStrings sorts items in place according to the comparator's order.
func (cmp *Comparator) SortStrings(items []string) {
	sort.Slice(items, func(i, j int) bool {
		return cmp.Compare(items[i], items[j]) < 0
	})
}
