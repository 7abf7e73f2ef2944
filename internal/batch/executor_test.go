package batch

import (
	"context"
	"testing"

	"github.com/watchlist-screening/sanctions-engine/internal/config"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/prepare"
	"github.com/watchlist-screening/sanctions-engine/internal/scoring"
	"github.com/watchlist-screening/sanctions-engine/internal/search"
)

func newExecutor(t *testing.T, poolSize int) *Executor {
	t.Helper()
	idx := index.New(prepare.Options{})
	idx.Replace([]*entity.Entity{
		{ID: "1", PrimaryName: "Jose Cruz", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
		{ID: "2", PrimaryName: "Maria Lopez", Source: entity.SourceUSCSL, Type: entity.TypePerson},
	})
	store, err := config.NewStore(config.Default(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	svc := search.New(idx, scoring.New(store))
	return New(svc, poolSize)
}

func TestScreenRejectsOversizedBatch(t *testing.T) {
	e := newExecutor(t, 4)
	items := make([]Item, MaxBatchSize+1)
	for i := range items {
		items[i] = Item{RequestID: "r", Name: "Jose Cruz"}
	}
	if _, err := e.Screen(context.Background(), items, Options{}); err == nil {
		t.Fatal("expected an error for a batch exceeding MaxBatchSize")
	}
}

func TestScreenMarksEmptyNameFailed(t *testing.T) {
	e := newExecutor(t, 4)
	resp, err := e.Screen(context.Background(), []Item{
		{RequestID: "r1", Name: ""},
		{RequestID: "r2", Name: "Jose Cruz"},
	}, Options{SearchOpts: search.Options{Limit: 10}})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if resp.Results[0].Status != StatusFailed {
		t.Errorf("expected empty-name item to be FAILED, got %s", resp.Results[0].Status)
	}
	if resp.Results[1].Status != StatusSuccess {
		t.Errorf("expected second item to succeed, got %s (%s)", resp.Results[1].Status, resp.Results[1].ErrorMessage)
	}
}

func TestScreenPreservesInputOrder(t *testing.T) {
	e := newExecutor(t, 2)
	items := []Item{
		{RequestID: "a", Name: "Jose Cruz"},
		{RequestID: "b", Name: "Maria Lopez"},
		{RequestID: "c", Name: ""},
	}
	resp, err := e.Screen(context.Background(), items, Options{SearchOpts: search.Options{Limit: 10}})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if resp.Results[i].RequestID != want {
			t.Errorf("result[%d].RequestID = %s, want %s (order not preserved)", i, resp.Results[i].RequestID, want)
		}
	}
}

func TestScreenOneFailureDoesNotAbortBatch(t *testing.T) {
	e := newExecutor(t, 1)
	items := []Item{
		{RequestID: "bad", Name: ""},
		{RequestID: "good1", Name: "Jose Cruz"},
		{RequestID: "good2", Name: "Maria Lopez"},
	}
	resp, err := e.Screen(context.Background(), items, Options{SearchOpts: search.Options{Limit: 10}})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	successes := 0
	for _, r := range resp.Results {
		if r.Status == StatusSuccess {
			successes++
		}
	}
	if successes != 2 {
		t.Errorf("expected 2 surviving successes despite 1 failure, got %d", successes)
	}
}

func TestComputeStatisticsCountsAndRates(t *testing.T) {
	results := []ItemResult{
		{Status: StatusSuccess, Matches: []entity.SearchResult{{Score: 0.97}, {Score: 0.90}}},
		{Status: StatusSuccess},
		{Status: StatusFailed},
	}
	stats := computeStatistics(results, 0)

	if stats.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", stats.TotalItems)
	}
	if stats.ItemsWithErrors != 1 {
		t.Errorf("ItemsWithErrors = %d, want 1", stats.ItemsWithErrors)
	}
	if stats.ItemsWithMatches != 1 || stats.ItemsWithoutMatches != 1 {
		t.Errorf("ItemsWithMatches=%d ItemsWithoutMatches=%d, want 1,1", stats.ItemsWithMatches, stats.ItemsWithoutMatches)
	}
	if stats.TotalMatchesFound != 2 {
		t.Errorf("TotalMatchesFound = %d, want 2", stats.TotalMatchesFound)
	}
	if stats.HighConfidenceCount != 1 || stats.MediumConfidenceCount != 1 {
		t.Errorf("HighConfidenceCount=%d MediumConfidenceCount=%d, want 1,1", stats.HighConfidenceCount, stats.MediumConfidenceCount)
	}
	wantSuccessRate := 2.0 / 3.0
	if stats.SuccessRate != wantSuccessRate {
		t.Errorf("SuccessRate = %v, want %v", stats.SuccessRate, wantSuccessRate)
	}
	wantMatchRate := 1.0 / 3.0
	if stats.MatchRate != wantMatchRate {
		t.Errorf("MatchRate = %v, want %v", stats.MatchRate, wantMatchRate)
	}
}

func TestComputeStatisticsEmptyBatch(t *testing.T) {
	stats := computeStatistics(nil, 0)
	if stats.TotalItems != 0 || stats.SuccessRate != 0 || stats.MatchRate != 0 {
		t.Errorf("expected zero-value statistics for an empty batch, got %+v", stats)
	}
}
