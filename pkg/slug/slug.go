// Package slug turns human-readable titles into URL-safe identifiers.
// Unicode letters are kept as-is, so non-latin titles stay readable.
package slug

import (
	"strings"
	"unicode"
)

// Make lowercases the title, keeps unicode letters and digits and collapses
// everything else into single hyphens. A title without a single identifier
// character falls back to "untitled" so the suffix probing still has a base.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.TrimSpace(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
