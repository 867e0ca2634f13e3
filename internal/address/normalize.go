// Package address canonicalizes free-text street addresses into comparison
// keys. The normalized form is the sole identity used for merge grouping and
// subject-property exclusion.
package address

import (
	"regexp"
	"strings"
)

var (
	separatorRe = regexp.MustCompile(`[.,#\-/]`)
	suffixRe    = regexp.MustCompile(`\b(street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|place|pl|court|ct|parkway|pkwy)\b`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Normalize reduces an address to its comparison key: lowercase, separators
// replaced with spaces, street-suffix words removed, all whitespace stripped.
// Empty input yields the empty string, which callers treat as "no identity".
func Normalize(addr string) string {
	if addr == "" {
		return ""
	}
	s := strings.ToLower(addr)
	s = separatorRe.ReplaceAllString(s, " ")
	s = suffixRe.ReplaceAllString(s, "")
	return spaceRe.ReplaceAllString(s, "")
}

// Same reports whether two raw addresses normalize to the same key.
// False when either side is empty; an absent address matches nothing.
func Same(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Normalize(a) == Normalize(b)
}
