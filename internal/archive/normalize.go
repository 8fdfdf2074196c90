// Package archive implements the multi-index summary repository: a hash map
// keyed by normalized title plus two AVL maps keyed by normalized author and
// keyword, with side tables preserving the original display spellings.
package archive

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize turns a display string into the lookup key used by every index:
// lowercase, canonically decomposed (NFD), with all combining marks removed.
// "José García" and "JOSE GARCIA" both normalize to "jose garcia".
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	normalized, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}
	return normalized
}
