package similarity

import "strings"

// TokenizedConfig is the subset of SimilarityConfig that TokenizedSimilarity
// consumes in addition to the base JaroWinkler Config.
type TokenizedConfig struct {
	JaroWinkler               Config
	UnmatchedIndexTokenWeight float64
}

// Tokenized computes the best-pairs word-level similarity of query against
// candidate: tokenize both on whitespace, greedily extract the largest
// remaining cell of the JW cost matrix (tie-break by earliest query index,
// then earliest candidate index), accumulate matched value, and penalize
// candidate tokens that never got paired.
//
// Unpaired candidate tokens carry a reduced weight
// (UnmatchedIndexTokenWeight, 0.15 by default) in the denominator rather
// than a full token's worth, so a short query against a longer indexed
// name ("nicolas maduro" vs "nicolas maduro moros") still scores high:
// watchlist entries routinely carry more name parts than a screening
// query supplies, and the extra parts are weak evidence against a match,
// not strong evidence.
func Tokenized(query, candidate string, cfg TokenizedConfig) float64 {
	qTokens := strings.Fields(query)
	cTokens := strings.Fields(candidate)
	if len(qTokens) == 0 || len(cTokens) == 0 {
		return 0
	}

	matrix := make([][]float64, len(qTokens))
	for i, qt := range qTokens {
		matrix[i] = make([]float64, len(cTokens))
		for j, ct := range cTokens {
			matrix[i][j] = JaroWinkler(qt, ct, cfg.JaroWinkler)
		}
	}

	rowUsed := make([]bool, len(qTokens))
	colUsed := make([]bool, len(cTokens))

	matched := 0.0
	paired := 0
	for pick := 0; pick < len(qTokens) && pick < len(cTokens); pick++ {
		bestI, bestJ := -1, -1
		bestVal := -1.0
		for i := 0; i < len(qTokens); i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < len(cTokens); j++ {
				if colUsed[j] {
					continue
				}
				if matrix[i][j] > bestVal {
					bestVal = matrix[i][j]
					bestI, bestJ = i, j
				}
			}
		}
		if bestI == -1 {
			break
		}
		rowUsed[bestI] = true
		colUsed[bestJ] = true
		matched += bestVal
		paired++
	}

	unmatchedQuery := len(qTokens) - paired
	if unmatchedQuery < 0 {
		unmatchedQuery = 0
	}
	unmatchedCandidate := len(cTokens) - paired
	if unmatchedCandidate < 0 {
		unmatchedCandidate = 0
	}

	denom := float64(paired) + float64(unmatchedQuery) + float64(unmatchedCandidate)*cfg.UnmatchedIndexTokenWeight
	if denom == 0 {
		return 0
	}

	return clamp01(matched / denom)
}

// TokenizedAgainstNames runs Tokenized against each of candidateNames and
// returns the maximum, the contract used when scoring a query name against
// an entity's normalizedPrimaryName/normalizedAltNames/wordCombinations.
func TokenizedAgainstNames(query string, candidateNames []string, cfg TokenizedConfig) float64 {
	best := 0.0
	for _, name := range candidateNames {
		if s := Tokenized(query, name, cfg); s > best {
			best = s
		}
	}
	return best
}
