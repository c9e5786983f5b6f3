package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds text to its canonical search form: trimmed, lower-cased,
// accents stripped, inner whitespace collapsed to single spaces. It is total
// and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(stripAccents, s)
	if err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}
