package normalize

import "strings"

// RemoveStopwords removes whole-token, case-insensitive stop-words/particles
// for the given detected language from an already-normalized string s,
// collapsing the remaining tokens back into a single space-joined string.
// Preserves token order.
func RemoveStopwords(s string, language string) string {
	if s == "" {
		return s
	}
	sw := StopwordsFor(language)
	tokens := strings.Fields(s)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if sw[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
