// Package search implements SearchService: enumerate the live index,
// filter, score, threshold, sort, and truncate. Purely functional over a
// single index snapshot; concurrent refreshes never affect an in-flight
// call.
package search

import (
	"sort"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/scoring"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

// Filters narrows candidates by equality before scoring.
type Filters struct {
	Source entity.Source
	Type   entity.Type
}

// Options controls result shaping.
type Options struct {
	Limit    int
	MinMatch float64
}

// Service runs searches against a live Index using a Scorer.
type Service struct {
	idx    *index.Index
	scorer *scoring.Scorer
}

// New creates a Service.
func New(idx *index.Index, scorer *scoring.Scorer) *Service {
	return &Service{idx: idx, scorer: scorer}
}

// Search enumerates the index, applies filters, scores each remaining
// candidate, drops results below minMatch, sorts descending by score with
// a stable ascending-ID tie-break, and truncates to limit.
func (s *Service) Search(query *entity.QueryEntity, filters Filters, opts Options, tr trace.Tracer) []entity.SearchResult {
	snap := s.idx.Load()
	candidates := snap.Entities()

	results := make([]entity.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if filters.Source != "" && c.Source != filters.Source {
			continue
		}
		if filters.Type != "" && c.Type != filters.Type {
			continue
		}

		breakdown := s.scorer.Score(query, c, tr)
		if breakdown.TotalWeightedScore < opts.MinMatch {
			continue
		}
		results = append(results, entity.SearchResult{
			Entity:    c,
			Score:     breakdown.TotalWeightedScore,
			Breakdown: breakdown,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entity.ID < results[j].Entity.ID
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}
