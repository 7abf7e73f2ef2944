package search

import (
	"testing"

	"github.com/watchlist-screening/sanctions-engine/internal/config"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/prepare"
	"github.com/watchlist-screening/sanctions-engine/internal/scoring"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

func newService(t *testing.T, entities []*entity.Entity) *Service {
	t.Helper()
	idx := index.New(prepare.Options{})
	idx.Replace(entities)
	store, err := config.NewStore(config.Default(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return New(idx, scoring.New(store))
}

func TestSearchFiltersBySourceAndType(t *testing.T) {
	svc := newService(t, []*entity.Entity{
		{ID: "1", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
		{ID: "2", PrimaryName: "Jose Cruz", Source: entity.SourceUSCSL, Type: entity.TypePerson},
		{ID: "3", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN, Type: entity.TypeBusiness},
	})

	results := svc.Search(&entity.QueryEntity{PrimaryName: "Jose Cruz"},
		Filters{Source: entity.SourceOFACSDN, Type: entity.TypePerson},
		Options{Limit: 10, MinMatch: 0}, trace.Noop)

	if len(results) != 1 || results[0].Entity.ID != "1" {
		t.Fatalf("expected only entity 1 to survive filters, got %+v", results)
	}
}

func TestSearchFindsPartialNameOnWatchlist(t *testing.T) {
	svc := newService(t, []*entity.Entity{
		{ID: "sdn-23021", PrimaryName: "NICOLAS MADURO MOROS", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
	})

	results := svc.Search(&entity.QueryEntity{PrimaryName: "Nicolas Maduro"}, Filters{},
		Options{Limit: 10, MinMatch: 0.85}, trace.Noop)

	if len(results) == 0 {
		t.Fatal("expected a partial-name query to match the full watchlist name")
	}
	if results[0].Entity.ID != "sdn-23021" || results[0].Score < 0.85 {
		t.Errorf("unexpected top result %s score=%v, want sdn-23021 with score >= 0.85", results[0].Entity.ID, results[0].Score)
	}
}

func TestSearchDropsBelowMinMatch(t *testing.T) {
	svc := newService(t, []*entity.Entity{
		{ID: "1", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN},
		{ID: "2", PrimaryName: "Completely Different", Source: entity.SourceOFACSDN},
	})

	results := svc.Search(&entity.QueryEntity{PrimaryName: "Jose Cruz"}, Filters{}, Options{Limit: 10, MinMatch: 0.9}, trace.Noop)
	for _, r := range results {
		if r.Score < 0.9 {
			t.Errorf("result %s scored %v, below MinMatch", r.Entity.ID, r.Score)
		}
	}
}

func TestSearchSortsDescendingWithStableIDTieBreak(t *testing.T) {
	svc := newService(t, []*entity.Entity{
		{ID: "b", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN},
		{ID: "a", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN},
	})

	results := svc.Search(&entity.QueryEntity{PrimaryName: "Jose Cruz"}, Filters{}, Options{Limit: 10, MinMatch: 0}, trace.Noop)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Score == results[1].Score && results[0].Entity.ID != "a" {
		t.Errorf("expected ascending-ID tie-break to put entity a first, got order %s,%s", results[0].Entity.ID, results[1].Entity.ID)
	}
}

func TestSearchTruncatesToLimit(t *testing.T) {
	entities := make([]*entity.Entity, 0, 5)
	for i := 0; i < 5; i++ {
		entities = append(entities, &entity.Entity{ID: string(rune('a' + i)), PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN})
	}
	svc := newService(t, entities)

	results := svc.Search(&entity.QueryEntity{PrimaryName: "Jose Cruz"}, Filters{}, Options{Limit: 2, MinMatch: 0}, trace.Noop)
	if len(results) != 2 {
		t.Errorf("expected Limit to truncate to 2 results, got %d", len(results))
	}
}
