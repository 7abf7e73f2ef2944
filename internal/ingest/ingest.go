// Package ingest defines the parser boundary (RawEntitySource) and a
// durable staging store that survives process restarts, so EntityIndex
// has something to rebuild from before the first live refresh completes.
// The live index itself stays memory-resident; this package never serves
// search traffic directly.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
)

// RawEntitySource is the parser contract: deliver every entity currently
// published by one watchlist. Implementations own network access, file
// parsing, and retry/backoff; they never apply normalization themselves --
// that is PreparePipeline's job, run by EntityIndex.Replace.
type RawEntitySource interface {
	Source() entity.Source
	Fetch(ctx context.Context) ([]*entity.Entity, error)
}

// StagingSource adapts the staging store into a RawEntitySource, so a
// refresh can republish the most recently staged batch for a source when
// no live parser is wired (seeded sample data, or a parser sidecar that
// writes straight to the staging table). A source with no staged batch
// fetches as empty, not as an error.
type StagingSource struct {
	source entity.Source
	store  *PostgresStagingStore
}

// NewStagingSource creates a StagingSource for one watchlist.
func NewStagingSource(source entity.Source, store *PostgresStagingStore) *StagingSource {
	return &StagingSource{source: source, store: store}
}

func (s *StagingSource) Source() entity.Source { return s.source }

func (s *StagingSource) Fetch(ctx context.Context) ([]*entity.Entity, error) {
	entities, _, err := s.store.Load(ctx, s.source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ingest: fetch staged batch for %s: %w", s.source, err)
	}
	return entities, nil
}
