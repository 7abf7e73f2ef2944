// Package scoring implements the multi-factor entity scorer: weighted
// aggregation across name, alternate names, address, government IDs,
// crypto addresses, contact, and birthdate, with exact-match dominance
// when a critical identifier matches outright.
package scoring

import (
	"strings"

	"github.com/watchlist-screening/sanctions-engine/internal/address"
	"github.com/watchlist-screening/sanctions-engine/internal/config"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/normalize"
	"github.com/watchlist-screening/sanctions-engine/internal/similarity"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

// Scorer computes ScoreBreakdowns for a query against candidate entities
// using a snapshot of the live ScoreConfig. The scorer never mutates its
// inputs.
type Scorer struct {
	configStore *config.Store
}

// New creates a Scorer reading its tunables from store.
func New(store *config.Store) *Scorer {
	return &Scorer{configStore: store}
}

// Score computes the full ScoreBreakdown and total weighted score for query
// against candidate. tr may be a no-op tracer.
func (s *Scorer) Score(query *entity.QueryEntity, candidate *entity.Entity, tr trace.Tracer) entity.ScoreBreakdown {
	cfg := s.configStore.Get()

	// Matching provenance identifiers are certain identity.
	if query.SourceID != "" && candidate.SourceID != "" && query.SourceID == candidate.SourceID {
		tr.Record("exact_source_id_shortcut", map[string]interface{}{"sourceId": query.SourceID})
		return entity.ScoreBreakdown{
			NameScore: 1, AltNamesScore: 1, AddressScore: 1, GovIDScore: 1,
			CryptoScore: 1, ContactScore: 1, DateScore: 1, TotalWeightedScore: 1,
		}
	}

	simCfg := similarityConfigFrom(cfg.Similarity)
	tokCfg := similarity.TokenizedConfig{JaroWinkler: simCfg, UnmatchedIndexTokenWeight: cfg.Similarity.UnmatchedIndexTokenWeight}
	phoneticCfg := similarity.PhoneticConfig{Disabled: cfg.Similarity.PhoneticFilteringDisabled}

	breakdown := entity.ScoreBreakdown{}

	if cfg.Weights.Phases.Name && query.PrimaryName != "" && candidate.Prepared != nil {
		breakdown.NameScore = s.nameScore(query.PrimaryName, candidate.Prepared, tokCfg, phoneticCfg, tr)
	}

	if cfg.Weights.Phases.AltName && query.PrimaryName != "" && candidate.Prepared != nil {
		breakdown.AltNamesScore = similarity.TokenizedAgainstNames(normalizeQuery(query.PrimaryName), candidate.Prepared.NormalizedAltNames, tokCfg)
	}

	if cfg.Weights.Phases.GovID && len(query.GovernmentIDs) > 0 && len(candidate.GovernmentIDs) > 0 {
		breakdown.GovIDScore = govIDScore(query.GovernmentIDs, candidate.GovernmentIDs)
	}

	if cfg.Weights.Phases.Crypto && len(query.CryptoAddresses) > 0 && len(candidate.CryptoAddresses) > 0 {
		breakdown.CryptoScore = cryptoScore(query.CryptoAddresses, candidate.CryptoAddresses)
	}

	if cfg.Weights.Phases.Contact && hasContact(query.Contact) && hasContact(candidate.Contact) {
		breakdown.ContactScore = contactScore(query.Contact, candidate.Contact)
	}

	if cfg.Weights.Phases.Address && len(query.Addresses) > 0 && len(candidate.Addresses) > 0 {
		breakdown.AddressScore = address.CompareAll(query.Addresses, candidate.Addresses, tokCfg)
	}

	if cfg.Weights.Phases.Date && query.DateOfBirth != nil && candidate.Person != nil && candidate.Person.DateOfBirth != nil {
		if query.DateOfBirth.Equal(*candidate.Person.DateOfBirth) {
			breakdown.DateScore = 1.0
		}
	}

	breakdown.TotalWeightedScore = aggregate(query, candidate, breakdown, cfg.Weights)
	tr.Record("breakdown", map[string]interface{}{
		"nameScore": breakdown.NameScore, "altNamesScore": breakdown.AltNamesScore,
		"addressScore": breakdown.AddressScore, "govIdScore": breakdown.GovIDScore,
		"cryptoScore": breakdown.CryptoScore, "contactScore": breakdown.ContactScore,
		"dateScore": breakdown.DateScore, "total": breakdown.TotalWeightedScore,
	})
	return breakdown
}

func (s *Scorer) nameScore(queryName string, prepared *entity.PreparedFields, tokCfg similarity.TokenizedConfig, phoneticCfg similarity.PhoneticConfig, tr trace.Tracer) float64 {
	normalizedQuery := normalizeQuery(queryName)
	if !similarity.PhoneticCompatible(normalizedQuery, prepared.NormalizedPrimaryName, phoneticCfg) {
		tr.Record("phonetic_veto", map[string]interface{}{"query": normalizedQuery})
		return 0
	}
	names := append([]string{prepared.NormalizedPrimaryName}, prepared.WordCombinations...)
	return similarity.TokenizedAgainstNames(normalizedQuery, names, tokCfg)
}

// normalizeQuery applies the same pre-stop-word normalization the index
// applies to candidate names (SDN reordering, case/accent folding,
// punctuation stripping), so query and candidate tokens compare on equal
// footing. Stop-words stay in the query: the candidate side exposes its
// pre-stop-word form through wordCombinations, and the best-of-names max
// picks whichever form pairs better.
func normalizeQuery(name string) string {
	return normalize.Normalize(normalize.ReorderSDNName(name))
}

func similarityConfigFrom(sc config.SimilarityConfig) similarity.Config {
	return similarity.Config{
		BoostThreshold:                sc.JaroWinklerBoostThreshold,
		PrefixSize:                    sc.JaroWinklerPrefixSize,
		LengthDifferenceCutoffFactor:  sc.LengthDifferenceCutoffFactor,
		LengthDifferencePenaltyWeight: sc.LengthDifferencePenaltyWeight,
		DifferentLetterPenaltyWeight:  sc.DifferentLetterPenaltyWeight,
		ExactMatchFavoritism:          sc.ExactMatchFavoritism,
	}
}

// govIDScore returns 1.0 on any matching (type, normalized identifier)
// pair when the country codes agree or both are blank (types, when both
// specified, must match); 0.9 when only one side carries a country code;
// 0.7 when both are present and differ.
func govIDScore(queryIDs, candidateIDs []entity.GovernmentID) float64 {
	best := 0.0
	for _, q := range queryIDs {
		qID := normalizeGovID(q.Identifier)
		if qID == "" {
			continue
		}
		for _, c := range candidateIDs {
			if q.Type != "" && c.Type != "" && q.Type != c.Type {
				continue
			}
			cID := normalizeGovID(c.Identifier)
			if cID == "" || cID != qID {
				continue
			}
			switch {
			case q.CountryCode == c.CountryCode:
				best = max(best, 1.0)
			case q.CountryCode == "" || c.CountryCode == "":
				best = max(best, 0.9)
			default:
				best = max(best, 0.7)
			}
		}
	}
	return best
}

func normalizeGovID(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "")
}

func cryptoScore(queryAddrs, candidateAddrs []entity.CryptoAddress) float64 {
	for _, q := range queryAddrs {
		for _, c := range candidateAddrs {
			if q.Currency == c.Currency && q.Address == c.Address && q.Address != "" {
				return 1.0
			}
		}
	}
	return 0
}

func hasContact(c entity.Contact) bool {
	return c.Email != "" || c.Phone != ""
}

func contactScore(q, c entity.Contact) float64 {
	if q.Email != "" && c.Email != "" && strings.EqualFold(q.Email, c.Email) {
		return 1.0
	}
	if q.Phone != "" && c.Phone != "" && normalizeGovID(q.Phone) == normalizeGovID(c.Phone) {
		return 1.0
	}
	return 0
}

// aggregate applies exact-match dominance when any critical identifier
// reaches the exact-match threshold, otherwise a weighted sum over factors
// with a present signal.
func aggregate(query *entity.QueryEntity, candidate *entity.Entity, b entity.ScoreBreakdown, weights config.WeightConfig) float64 {
	bestName := max(b.NameScore, b.AltNamesScore)

	hasExactMatch := b.GovIDScore >= weights.ExactMatchThreshold ||
		b.CryptoScore >= weights.ExactMatchThreshold ||
		b.ContactScore >= weights.ExactMatchThreshold

	if hasExactMatch {
		return 0.7 + 0.3*bestName
	}

	totalWeight := weights.NameWeight
	weightedSum := weights.NameWeight * bestName

	if query.SourceID != "" && candidate.SourceID != "" && query.SourceID != candidate.SourceID {
		totalWeight += weights.CriticalIDWeight
		// mismatch penalty: 0 * criticalIdWeight contributes no score.
	}

	type factor struct {
		score  float64
		weight float64
	}
	factors := []factor{
		{b.AddressScore, weights.AddressWeight},
		{b.GovIDScore, weights.CriticalIDWeight},
		{b.CryptoScore, weights.CriticalIDWeight},
		{b.ContactScore, weights.SupportingInfoWeight},
		{b.DateScore, weights.SupportingInfoWeight},
	}
	for _, f := range factors {
		if f.score > 0 {
			totalWeight += f.weight
			weightedSum += f.weight * f.score
		}
	}

	if totalWeight == 0 {
		return 0
	}
	return clamp01(weightedSum / totalWeight)
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
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
