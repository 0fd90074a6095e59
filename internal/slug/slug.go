// Package slug derives URL- and filesystem-safe identifiers from display
// strings. Tag labels pass through here before becoming output paths; post
// slugs come from directory names and are validated rather than derived.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes accented characters and strips the combining
// marks, so "Caché" slugifies to "cache" rather than "cach".
var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts an arbitrary display string into a slug: lowercase ASCII
// letters and digits with single hyphens between runs of anything else.
func Make(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Valid reports whether s is already in canonical slug form. Post directory
// names must satisfy this so they can be used verbatim in URLs.
func Valid(s string) bool {
	return s != "" && s == Make(s)
}
