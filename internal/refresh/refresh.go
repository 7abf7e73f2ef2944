// Package refresh drives the ingestion boundary: pulling each configured
// source, running the prepare pipeline via EntityIndex.ReplaceSource, and
// tracking the IDLE/REFRESHING/ERROR state machine backing the download
// status and refresh-trigger endpoints. State lives in memory only; a
// failed refresh leaves the previous index live.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/ingest"
)

// State is the overall refresh state machine's current phase.
type State string

const (
	StateIdle       State = "IDLE"
	StateRefreshing State = "REFRESHING"
	StateError      State = "ERROR"
)

// SourceStatus reports one source's last refresh outcome.
type SourceStatus struct {
	Source      entity.Source
	LastUpdated time.Time
	LastError   string
}

// Orchestrator owns the refresh state machine over a set of RawEntitySources,
// an EntityIndex to publish into, and an optional staging store for
// crash-recovery persistence between refreshes.
type Orchestrator struct {
	idx     *index.Index
	staging *ingest.PostgresStagingStore
	log     *zap.Logger

	mu          sync.Mutex
	state       State
	lastRefresh time.Time
	lastError   string
	sources     map[entity.Source]ingest.RawEntitySource
	sourceStat  map[entity.Source]SourceStatus
}

// New creates an Orchestrator. staging may be nil when no durable
// crash-recovery store is configured.
func New(idx *index.Index, staging *ingest.PostgresStagingStore, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		idx:        idx,
		staging:    staging,
		log:        log,
		state:      StateIdle,
		sources:    map[entity.Source]ingest.RawEntitySource{},
		sourceStat: map[entity.Source]SourceStatus{},
	}
}

// Register adds a RawEntitySource this orchestrator will pull on refresh.
func (o *Orchestrator) Register(src ingest.RawEntitySource) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sources[src.Source()] = src
}

// SeedFromStaging loads every staged batch and publishes it into the index
// without contacting any live source, so a cold-started process can serve
// searches before the first live refresh completes.
func (o *Orchestrator) SeedFromStaging(ctx context.Context) error {
	if o.staging == nil {
		return nil
	}
	staged, err := o.staging.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh: seed from staging: %w", err)
	}
	for source, entities := range staged {
		o.idx.ReplaceSource(source, entities)
		o.mu.Lock()
		o.sourceStat[source] = SourceStatus{Source: source, LastUpdated: time.Now()}
		o.mu.Unlock()
	}
	return nil
}

// Status is the snapshot backing GET /v1/download/status.
type Status struct {
	State       State
	LastRefresh time.Time
	LastError   string
	Sources     []SourceStatus
}

// Status returns the current refresh state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	sources := make([]SourceStatus, 0, len(o.sourceStat))
	for _, s := range o.sourceStat {
		sources = append(sources, s)
	}
	return Status{State: o.state, LastRefresh: o.lastRefresh, LastError: o.lastError, Sources: sources}
}

// ErrAlreadyRefreshing is returned by Trigger when a refresh is already in
// progress; callers map this to HTTP 429.
var ErrAlreadyRefreshing = fmt.Errorf("refresh already in progress")

// Trigger starts a refresh in the background if one is not already
// running. Returns ErrAlreadyRefreshing otherwise.
func (o *Orchestrator) Trigger(ctx context.Context) error {
	o.mu.Lock()
	if o.state == StateRefreshing {
		o.mu.Unlock()
		return ErrAlreadyRefreshing
	}
	o.state = StateRefreshing
	o.mu.Unlock()

	go o.run(ctx)
	return nil
}

func (o *Orchestrator) run(ctx context.Context) {
	o.mu.Lock()
	sources := make([]ingest.RawEntitySource, 0, len(o.sources))
	for _, src := range o.sources {
		sources = append(sources, src)
	}
	o.mu.Unlock()

	var refreshErr error
	for _, src := range sources {
		entities, err := src.Fetch(ctx)
		if err != nil {
			refreshErr = err
			o.mu.Lock()
			st := o.sourceStat[src.Source()]
			st.Source = src.Source()
			st.LastError = err.Error()
			o.sourceStat[src.Source()] = st
			o.mu.Unlock()
			if o.log != nil {
				o.log.Warn("refresh source failed, keeping previous index live", zap.String("source", string(src.Source())), zap.Error(err))
			}
			continue
		}

		o.idx.ReplaceSource(src.Source(), entities)
		if o.staging != nil {
			if err := o.staging.Stage(ctx, src.Source(), entities); err != nil && o.log != nil {
				o.log.Warn("failed to persist staging snapshot", zap.String("source", string(src.Source())), zap.Error(err))
			}
		}

		o.mu.Lock()
		o.sourceStat[src.Source()] = SourceStatus{Source: src.Source(), LastUpdated: time.Now()}
		o.mu.Unlock()
	}

	o.mu.Lock()
	o.lastRefresh = time.Now()
	if refreshErr != nil {
		o.state = StateError
		o.lastError = refreshErr.Error()
	} else {
		o.state = StateIdle
		o.lastError = ""
	}
	o.mu.Unlock()
}
