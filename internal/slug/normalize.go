// Package slug turns free text into the URL tokens used for feature links and
// for matching incoming slugs against stored titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Turkish letters have to be folded before decomposition: ı has no
// decomposition at all and İ decomposes into I plus a dot that lower-cases
// into two runes.
var turkish = strings.NewReplacer(
	"ı", "i", "İ", "i",
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ş", "s", "Ş", "s",
	"ö", "o", "Ö", "o",
	"ç", "c", "Ç", "c",
)

const blocked = "&+.,()'\"!:@#$%^*{}[]<>~`;?/\\|="

// Normalize returns the slug form of text. The result only contains
// lower-case ASCII letters, digits and hyphens, never starts or ends with a
// hyphen, and Normalize(Normalize(s)) equals Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := turkish.Replace(text)
	s = stripMarks(s)

	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(blocked, r) {
			return -1
		}
		return r
	}, s)

	s = strings.Join(strings.Fields(s), "-")
	s = strings.ToLower(s)

	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return -1
		}
	}, s)

	// dropped runes at either end leave dangling separators
	return strings.Trim(s, "-")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Compact is Normalize with the hyphens removed, used to tolerate minor
// punctuation differences between a title and a hand-typed slug.
func Compact(text string) string {
	return strings.ReplaceAll(Normalize(text), "-", "")
}

// Match reports whether a stored title and an incoming slug name the same
// thing: equal normalized forms, or equal once hyphens are dropped.
func Match(title, candidate string) bool {
	a, b := Normalize(title), Normalize(candidate)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	ca := Compact(title)
	return ca != "" && ca == Compact(candidate)
}
