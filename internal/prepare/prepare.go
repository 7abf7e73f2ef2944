// Package prepare composes the normalize subsystem into the one-time
// preparation pipeline that populates every indexed entity's PreparedFields.
// Preparation never fails: a missing field contributes an empty string or
// empty list rather than an error.
package prepare

import (
	"fmt"
	"strings"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/normalize"
)

// Options controls the one flag that affects preparation: whether
// normalized name fields keep stop-words. Word combinations are always
// built from the pre-stop-word form regardless of this flag, so particle
// runs like "de la" survive long enough to merge.
type Options struct {
	KeepStopwords bool
}

// Prepare runs the full pipeline over e and returns the PreparedFields to
// attach to it. e is read-only; callers are responsible for assigning the
// result to e.Prepared.
func Prepare(e *entity.Entity, opts Options) *entity.PreparedFields {
	detectedLanguage := normalize.DetectLanguage(e.PrimaryName)

	primaryPre := preNormalize(e.PrimaryName)
	normalizedPrimaryName := primaryPre
	if !opts.KeepStopwords {
		normalizedPrimaryName = normalize.RemoveStopwords(primaryPre, detectedLanguage)
	}

	allNamesPre := make([]string, 0, 1+len(e.AltNames))
	allNamesPre = append(allNamesPre, primaryPre)

	normalizedAltNames := make([]string, 0, len(e.AltNames))
	seenAlt := map[string]bool{}
	for _, alt := range e.AltNames {
		if strings.TrimSpace(alt) == "" {
			continue
		}
		altLang := normalize.DetectLanguage(alt)
		altPre := preNormalize(alt)
		if altPre == "" {
			continue
		}
		allNamesPre = append(allNamesPre, altPre)

		normalizedAlt := altPre
		if !opts.KeepStopwords {
			normalizedAlt = normalize.RemoveStopwords(altPre, altLang)
		}
		if normalizedAlt == "" || seenAlt[normalizedAlt] {
			continue
		}
		seenAlt[normalizedAlt] = true
		normalizedAltNames = append(normalizedAltNames, normalizedAlt)
	}

	wordCombinations := dedupeNonEmpty(generateCombinations(allNamesPre))

	withoutStopwords := dedupeNonEmpty(append([]string{normalizedPrimaryName}, normalizedAltNames...))

	withoutCompanyTitles := dedupeNonEmpty(stripTitlesAll(withoutStopwords))

	normalizedAddresses := make([]string, 0, len(e.Addresses))
	for _, addr := range e.Addresses {
		if formatted := normalizeAddress(addr); formatted != "" {
			normalizedAddresses = append(normalizedAddresses, formatted)
		}
	}

	return &entity.PreparedFields{
		NormalizedPrimaryName:               normalizedPrimaryName,
		NormalizedAltNames:                  normalizedAltNames,
		NormalizedNamesWithoutStopwords:     withoutStopwords,
		NormalizedNamesWithoutCompanyTitles: withoutCompanyTitles,
		WordCombinations:                    wordCombinations,
		NormalizedAddresses:                 normalizedAddresses,
		NormalizedPhone:                     normalize.NormalizeID(e.Contact.Phone),
		DetectedLanguage:                    detectedLanguage,
	}
}

// preNormalize applies SDN reordering then the base Normalize transform,
// producing the pre-stop-word form the rest of the pipeline consumes.
func preNormalize(name string) string {
	return normalize.Normalize(normalize.ReorderSDNName(name))
}

func generateCombinations(namesPre []string) []string {
	var out []string
	for _, n := range namesPre {
		out = append(out, normalize.GenerateWordCombinations(n)...)
	}
	return out
}

func stripTitlesAll(namesPre []string) []string {
	out := make([]string, 0, len(namesPre))
	for _, n := range namesPre {
		out = append(out, normalize.StripCompanyTitles(n))
	}
	return out
}

func dedupeNonEmpty(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// normalizeAddress lowercases each field, drops commas and periods only
// (leaving whitespace as-is), and builds the display string
// "<line1> <city> <state> <postal> <country>" trimmed.
func normalizeAddress(a entity.Address) string {
	clean := func(s string) string {
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, ".", "")
		return s
	}
	parts := []string{clean(a.Line1), clean(a.City), clean(a.State), clean(a.Postal), clean(a.Country)}
	joined := strings.TrimSpace(fmt.Sprintf("%s %s %s %s %s", parts[0], parts[1], parts[2], parts[3], parts[4]))
	return strings.Join(strings.Fields(joined), " ")
}
