// Package slug turns free-form page names into canonical URL identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of name: lowercase ASCII letters and
// digits separated by single hyphens, with no leading or trailing hyphen.
// Accented letters are folded to their base letter; anything else that is not
// a letter or digit becomes a separator. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	folded, _, err := transform.String(foldMarks(), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// IsCanonical reports whether name is already in normalized form.
func IsCanonical(name string) bool {
	return Normalize(name) == name
}

// foldMarks decomposes compatibility characters and strips combining marks,
// so "Café" becomes "Cafe". A transformer is stateful and must not be shared.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
