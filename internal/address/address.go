// Package address implements the field-weighted address comparer used by
// the entity scorer: country equality, city similarity, and line1 token
// similarity, combined and maxed over the Cartesian product when either
// side carries multiple addresses.
package address

import (
	"strings"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/similarity"
)

// Fixed per-field contributions to the combined address score.
const (
	countryWeight = 0.3
	cityWeight    = 0.3
	line1Weight   = 0.4
)

// Compare scores a single query address against a single candidate address
// in [0,1]. Returns 0 if neither side has any field present.
func Compare(q, c entity.Address, cfg similarity.TokenizedConfig) float64 {
	qCountry, cCountry := strings.ToLower(strings.TrimSpace(q.Country)), strings.ToLower(strings.TrimSpace(c.Country))
	qCity, cCity := strings.ToLower(strings.TrimSpace(q.City)), strings.ToLower(strings.TrimSpace(c.City))
	qLine1, cLine1 := strings.ToLower(strings.TrimSpace(q.Line1)), strings.ToLower(strings.TrimSpace(c.Line1))

	if qCountry == "" && cCountry == "" && qCity == "" && cCity == "" && qLine1 == "" && cLine1 == "" {
		return 0
	}

	score := 0.0
	if qCountry != "" && cCountry != "" && qCountry == cCountry {
		score += countryWeight
	}
	if qCity != "" && cCity != "" {
		score += cityWeight * similarity.JaroWinkler(qCity, cCity, cfg.JaroWinkler)
	}
	if qLine1 != "" && cLine1 != "" {
		score += line1Weight * similarity.Tokenized(qLine1, cLine1, cfg)
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// CompareAll scores q against every address in candidates and returns the
// maximum over the Cartesian product (the contract used when either side
// carries multiple addresses). Returns 0 when either list is empty.
func CompareAll(queries, candidates []entity.Address, cfg similarity.TokenizedConfig) float64 {
	best := 0.0
	for _, q := range queries {
		for _, c := range candidates {
			if s := Compare(q, c, cfg); s > best {
				best = s
			}
		}
	}
	return best
}
