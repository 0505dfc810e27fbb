package conversation

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	lower = cases.Lower(language.English)
	// NFD, then drop combining marks so "café" and "cafe" compare equal.
	foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize prepares an utterance for rule matching: lower-case,
// diacritics removed, whitespace collapsed, and the trailing sentence
// punctuation recognizers like to append stripped.
func Normalize(s string) string {
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	s = lower.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ".!?")
}
