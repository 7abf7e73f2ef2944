// Package batch implements the bounded parallel batch screener: a
// fixed-size worker pool dispatching item-level search calls, isolating
// each item's failure so one bad row never aborts the batch.
package batch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/search"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

// MaxBatchSize is the hard cap on items per batch request.
const MaxBatchSize = 1000

// DefaultPoolSize is the default fixed worker-pool size.
const DefaultPoolSize = 6

// ItemStatus is a batch item's terminal or in-flight state.
type ItemStatus string

const (
	StatusQueued  ItemStatus = "QUEUED"
	StatusRunning ItemStatus = "RUNNING"
	StatusSuccess ItemStatus = "SUCCESS"
	StatusFailed  ItemStatus = "FAILED"
)

// Item is a single batch screening request.
type Item struct {
	RequestID  string
	Name       string
	EntityType entity.Type
	Source     entity.Source
}

// ItemResult is the per-item outcome, preserving input order in the
// response regardless of completion order.
type ItemResult struct {
	RequestID     string
	OriginalQuery string
	Status        ItemStatus
	ErrorMessage  string
	Matches       []entity.SearchResult
}

// ConfidenceBands classify matches by score for the batch statistics.
const (
	highConfidence   = 0.95
	mediumConfidence = 0.85
)

// Statistics summarizes a completed batch.
type Statistics struct {
	TotalItems           int
	ItemsWithMatches      int
	ItemsWithoutMatches   int
	ItemsWithErrors       int
	TotalMatchesFound     int
	AverageMatchScore     float64
	HighConfidenceCount   int
	MediumConfidenceCount int
	LowConfidenceCount    int
	SuccessRate           float64
	MatchRate             float64
	ProcessingTimeMs      int64
}

// Response is the full batch result.
type Response struct {
	Results    []ItemResult
	Statistics Statistics
}

// Executor runs batches of searches over a fixed-size worker pool.
type Executor struct {
	svc      *search.Service
	poolSize int
}

// New creates an Executor with the given pool size (clamped to >= 1,
// defaulting to DefaultPoolSize when 0 is passed).
func New(svc *search.Service, poolSize int) *Executor {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &Executor{svc: svc, poolSize: poolSize}
}

// Options carries the shared filters/limit/minMatch applied to every item
// in a batch.
type Options struct {
	Filters  search.Filters
	SearchOpts search.Options
}

// Screen dispatches every item in batch onto the worker pool and returns
// the aggregated response once all items reach a terminal state. A single
// item's failure (e.g. an empty name) is captured and marked FAILED; it
// never aborts the rest of the batch.
func (e *Executor) Screen(ctx context.Context, items []Item, opts Options) (Response, error) {
	if len(items) > MaxBatchSize {
		return Response{}, fmt.Errorf("batch size %d exceeds maximum %d", len(items), MaxBatchSize)
	}

	start := time.Now()
	results := make([]ItemResult, len(items))
	sem := semaphore.NewWeighted(int64(e.poolSize))

	done := make(chan struct{}, len(items))
	for i, item := range items {
		i, item := i, item
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = ItemResult{RequestID: item.RequestID, OriginalQuery: item.Name, Status: StatusFailed, ErrorMessage: err.Error()}
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			results[i] = e.runItem(item, opts)
		}()
	}
	for range items {
		<-done
	}

	return Response{
		Results:    results,
		Statistics: computeStatistics(results, time.Since(start)),
	}, nil
}

// runItem executes a single item in isolation: any panic is recovered into
// a FAILED result so it never propagates to the pool or other items.
func (e *Executor) runItem(item Item, opts Options) (result ItemResult) {
	result = ItemResult{RequestID: item.RequestID, OriginalQuery: item.Name, Status: StatusRunning}

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusFailed
			result.ErrorMessage = fmt.Sprintf("panic: %v", r)
		}
	}()

	if item.Name == "" {
		result.Status = StatusFailed
		result.ErrorMessage = "name must not be empty"
		return result
	}

	filters := opts.Filters
	if item.EntityType != "" {
		filters.Type = item.EntityType
	}
	if item.Source != "" {
		filters.Source = item.Source
	}

	query := &entity.QueryEntity{PrimaryName: item.Name}
	matches := e.svc.Search(query, filters, opts.SearchOpts, trace.Noop)

	result.Status = StatusSuccess
	result.Matches = matches
	return result
}

func computeStatistics(results []ItemResult, elapsed time.Duration) Statistics {
	stats := Statistics{TotalItems: len(results), ProcessingTimeMs: elapsed.Milliseconds()}

	var scoreSum float64
	for _, r := range results {
		switch r.Status {
		case StatusFailed:
			stats.ItemsWithErrors++
		case StatusSuccess:
			if len(r.Matches) > 0 {
				stats.ItemsWithMatches++
			} else {
				stats.ItemsWithoutMatches++
			}
		}
		for _, m := range r.Matches {
			stats.TotalMatchesFound++
			scoreSum += m.Score
			switch {
			case m.Score >= highConfidence:
				stats.HighConfidenceCount++
			case m.Score >= mediumConfidence:
				stats.MediumConfidenceCount++
			default:
				stats.LowConfidenceCount++
			}
		}
	}

	if stats.TotalItems > 0 {
		stats.SuccessRate = float64(stats.TotalItems-stats.ItemsWithErrors) / float64(stats.TotalItems)
		stats.MatchRate = float64(stats.ItemsWithMatches) / float64(stats.TotalItems)
	}
	if stats.TotalMatchesFound > 0 {
		stats.AverageMatchScore = scoreSum / float64(stats.TotalMatchesFound)
	}
	return stats
}
