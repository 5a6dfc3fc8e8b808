package catalog

import (
	"strings"
	"unicode"
)

var dayAccents = strings.NewReplacer("é", "e", "á", "a")

// NormalizeTitle is the key used for title, person and month lookups.
func NormalizeTitle(s string) string {
	return strings.ToLower(s)
}

// NormalizeDay lower-cases a day name and strips the two accents that
// appear in Spanish weekday names (miércoles, sábado). No other
// folding is applied.
func NormalizeDay(s string) string {
	return dayAccents.Replace(strings.ToLower(s))
}

// TitleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "toy story 2" becomes "Toy Story 2" and
// "o'brien" becomes "O'Brien".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
