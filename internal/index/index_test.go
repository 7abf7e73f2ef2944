package index

import (
	"testing"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/prepare"
)

func TestNewIndexIsEmpty(t *testing.T) {
	idx := New(prepare.Options{})
	if idx.Count() != 0 {
		t.Errorf("new Index should start empty, got Count()=%d", idx.Count())
	}
}

func TestReplacePreparesEveryEntity(t *testing.T) {
	idx := New(prepare.Options{})
	idx.Replace([]*entity.Entity{
		{ID: "1", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN},
		{ID: "2", PrimaryName: "Maria Lopez", Source: entity.SourceUSCSL},
	})

	snap := idx.Load()
	if len(snap.Entities()) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(snap.Entities()))
	}
	for _, e := range snap.Entities() {
		if e.Prepared == nil {
			t.Errorf("entity %s has nil Prepared after Replace", e.ID)
		}
	}
}

func TestReplaceSourceLeavesOtherSourcesIntact(t *testing.T) {
	idx := New(prepare.Options{})
	idx.Replace([]*entity.Entity{
		{ID: "1", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN},
		{ID: "2", PrimaryName: "Maria Lopez", Source: entity.SourceUSCSL},
	})

	idx.ReplaceSource(entity.SourceOFACSDN, []*entity.Entity{
		{ID: "3", PrimaryName: "New Entry", Source: entity.SourceOFACSDN},
	})

	snap := idx.Load()
	if len(snap.Entities()) != 2 {
		t.Fatalf("expected 2 entities after single-source replace, got %d", len(snap.Entities()))
	}

	var sawNew, sawUntouched bool
	for _, e := range snap.Entities() {
		if e.ID == "3" {
			sawNew = true
		}
		if e.ID == "2" {
			sawUntouched = true
		}
		if e.ID == "1" {
			t.Errorf("expected entity 1 to be replaced by ReplaceSource, but it is still present")
		}
	}
	if !sawNew || !sawUntouched {
		t.Errorf("ReplaceSource did not merge correctly: new=%v untouched=%v", sawNew, sawUntouched)
	}
}

func TestLoadSnapshotStableDuringConcurrentReplace(t *testing.T) {
	idx := New(prepare.Options{})
	idx.Replace([]*entity.Entity{{ID: "1", PrimaryName: "A", Source: entity.SourceOFACSDN}})

	snap := idx.Load()

	idx.Replace([]*entity.Entity{{ID: "2", PrimaryName: "B", Source: entity.SourceOFACSDN}})

	if len(snap.Entities()) != 1 || snap.Entities()[0].ID != "1" {
		t.Errorf("a previously loaded snapshot must not observe a later Replace")
	}
}

func TestListInfo(t *testing.T) {
	idx := New(prepare.Options{})
	idx.Replace([]*entity.Entity{
		{ID: "1", PrimaryName: "A", Source: entity.SourceOFACSDN},
		{ID: "2", PrimaryName: "B", Source: entity.SourceOFACSDN},
		{ID: "3", PrimaryName: "C", Source: entity.SourceEUCSL},
	})

	sources, overall := idx.ListInfo()
	if overall.IsZero() {
		t.Errorf("expected a non-zero overall lastUpdated time")
	}
	counts := map[entity.Source]int{}
	for _, s := range sources {
		counts[s.Name] = s.EntityCount
	}
	if counts[entity.SourceOFACSDN] != 2 || counts[entity.SourceEUCSL] != 1 {
		t.Errorf("unexpected per-source counts: %v", counts)
	}
}
