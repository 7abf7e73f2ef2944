// Package similarity implements the fuzzy string-matching core: a
// configurable Jaro-Winkler variant with length, unmatched-token, and
// different-letter penalties; a token-pairs aggregator; and a Soundex-style
// phonetic pre-filter.
//
// JaroWinkler exposes the full knob surface the scoring config carries:
// prefix boost threshold and size, a length-difference cutoff/penalty, a
// different-first-letter penalty, and exact-match favoritism added before
// the final clamp to [0,1].
package similarity

import (
	"math"
	"strings"
)

// Config is the subset of SimilarityConfig that JaroWinkler consumes.
type Config struct {
	BoostThreshold              float64
	PrefixSize                  int
	LengthDifferenceCutoffFactor float64
	LengthDifferencePenaltyWeight float64
	DifferentLetterPenaltyWeight float64
	ExactMatchFavoritism        float64
}

// DefaultConfig mirrors ScoreConfig's documented SimilarityConfig defaults.
func DefaultConfig() Config {
	return Config{
		BoostThreshold:               0.7,
		PrefixSize:                   4,
		LengthDifferenceCutoffFactor: 0.9,
		LengthDifferencePenaltyWeight: 0.3,
		DifferentLetterPenaltyWeight: 0.9,
		ExactMatchFavoritism:         0.0,
	}
}

// JaroWinkler computes the configured Jaro-Winkler similarity of a and b in
// [0,1].
func JaroWinkler(a, b string, cfg Config) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	j := jaro(a, b)

	if j >= cfg.BoostThreshold {
		prefix := commonPrefixLen(a, b, cfg.PrefixSize)
		j = j + float64(prefix)*0.1*(1.0-j)
	}

	score := j

	shortLen, longLen := len(a), len(b)
	if shortLen > longLen {
		shortLen, longLen = longLen, shortLen
	}
	if longLen > 0 && float64(shortLen) < float64(longLen)*cfg.LengthDifferenceCutoffFactor {
		gap := 1.0 - float64(shortLen)/float64(longLen)
		score *= 1.0 - cfg.LengthDifferencePenaltyWeight*gap
	}

	ra, rb := []rune(a), []rune(b)
	if ra[0] != rb[0] {
		score *= cfg.DifferentLetterPenaltyWeight
	}

	if strings.EqualFold(a, b) {
		score += cfg.ExactMatchFavoritism
	}

	return clamp01(score)
}

// jaro computes the plain (un-boosted) Jaro similarity of a and b.
func jaro(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	lenA, lenB := len(ra), len(rb)
	if lenA == 0 || lenB == 0 {
		return 0
	}

	window := int(math.Max(float64(lenA), float64(lenB))/2.0) - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, lenA)
	bMatched := make([]bool, lenB)

	matches := 0
	for i := 0; i < lenA; i++ {
		start := i - window
		if start < 0 {
			start = 0
		}
		end := i + window + 1
		if end > lenB {
			end = lenB
		}
		for k := start; k < end; k++ {
			if bMatched[k] || ra[i] != rb[k] {
				continue
			}
			aMatched[i] = true
			bMatched[k] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < lenA; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ra[i] != rb[k] {
			transpositions++
		}
		k++
	}
	t := transpositions / 2

	m := float64(matches)
	return (m/float64(lenA) + m/float64(lenB) + (m-float64(t))/m) / 3.0
}

func commonPrefixLen(a, b string, maxPrefix int) int {
	ra, rb := []rune(a), []rune(b)
	limit := maxPrefix
	if len(ra) < limit {
		limit = len(ra)
	}
	if len(rb) < limit {
		limit = len(rb)
	}
	n := 0
	for i := 0; i < limit; i++ {
		if ra[i] != rb[i] {
			break
		}
		n++
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
