// Package normalize implements the deterministic, byte-for-byte reproducible
// text transformations the rest of the engine depends on: case folding,
// punctuation stripping, Unicode compatibility folding, SDN-style name
// reordering, and government-ID/phone normalization.
//
// Output is lowercase, apostrophes are stripped before punctuation
// removal, and NFKC-equivalent accent folding makes "José" and "Jose"
// compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder strips combining diacritical marks after NFKD decomposition,
// the standard golang.org/x/text recipe for compatibility folding.
var accentFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)

// Normalize case-folds, accent-folds, strips apostrophes and punctuation,
// and collapses whitespace. A nil/empty input returns "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = stripApostrophes(s)

	folded, _, err := transform.String(accentFolder, s)
	if err == nil {
		s = folded
	}

	s = strings.ToLower(s)
	s = stripPunctuation(s)
	return collapseWhitespace(s)
}

// stripApostrophes removes ASCII and typographic apostrophes before any
// other punctuation stripping runs, so "O'Brien" -> "obrien" rather than
// "o brien".
func stripApostrophes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\'', '’', '‘', '`', 'ʼ':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripPunctuation replaces every rune that is not a letter, digit, or
// whitespace with a space.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// ReorderSDNName implements the OFAC SDN "LAST, FIRST MIDDLE" reordering:
// if s contains exactly one comma, returns "<after> <before>" trimmed;
// otherwise returns s unchanged.
func ReorderSDNName(s string) string {
	if strings.Count(s, ",") != 1 {
		return s
	}
	parts := strings.SplitN(s, ",", 2)
	before := strings.TrimSpace(parts[0])
	after := strings.TrimSpace(parts[1])
	if after == "" {
		return s
	}
	return strings.TrimSpace(after + " " + before)
}

// NormalizeID strips every non-alphanumeric character, for comparing
// government IDs and phone numbers by equality.
func NormalizeID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
