package normalize

import (
	"strings"
	"unicode"
)

// supportedLanguages is the set of Latin-script language tags DetectLanguage
// scores by stop-word overlap. The script-detected tags (ar, ru, zh) are
// returned without scoring and are not listed here.
var supportedLanguages = []string{"es", "fr", "de", "it", "pt", "en"}

// DetectLanguage returns a heuristic language tag for s. Script-specific
// alphabets (Arabic, Cyrillic, CJK) are detected directly from their
// Unicode block; Latin-script names fall back to scoring stop-word overlap
// against each supported Latin language and picking the best match, en by
// default.
func DetectLanguage(s string) string {
	if s == "" {
		return "en"
	}

	for _, r := range s {
		switch {
		case unicode.Is(unicode.Arabic, r):
			return "ar"
		case unicode.Is(unicode.Cyrillic, r):
			return "ru"
		case unicode.Is(unicode.Han, r):
			return "zh"
		}
	}

	lowered := strings.ToLower(s)
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return "en"
	}

	best := "en"
	bestScore := -1
	for _, lang := range supportedLanguages {
		sw := StopwordsFor(lang)
		score := 0
		for _, tok := range tokens {
			if sw[tok] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = lang
		}
	}
	if bestScore <= 0 {
		return "en"
	}
	return best
}
