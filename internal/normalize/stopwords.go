package normalize

// stopwordsByLanguage holds the short function-word / particle set removed
// during normalization, keyed by the language tag DetectLanguage returns. Sets are whole-token, case-insensitive (callers pass already
// lowercased tokens).
var stopwordsByLanguage = map[string]map[string]bool{
	"es": set("de", "la", "el", "los", "las", "del", "y", "en", "al"),
	"fr": set("de", "la", "le", "les", "du", "des", "et", "en", "au", "aux"),
	"de": set("der", "die", "das", "den", "dem", "und", "von", "zu"),
	"it": set("di", "la", "il", "lo", "gli", "le", "dei", "e", "da"),
	"pt": set("de", "da", "do", "dos", "das", "e", "em", "a", "o"),
	"ar": set("al", "bin", "ibn", "abu", "min", "wa"),
	"ru": set("i", "na", "v", "iz", "ot"),
	"zh": set(),
	"en": set("the", "of", "and", "a", "an"),
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// StopwordsFor returns the stop-word set for a language tag, falling back
// to the English set for unrecognized tags.
func StopwordsFor(language string) map[string]bool {
	if sw, ok := stopwordsByLanguage[language]; ok {
		return sw
	}
	return stopwordsByLanguage["en"]
}
