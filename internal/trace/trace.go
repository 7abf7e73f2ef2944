// Package trace implements per-request capture of phase events, timings,
// and the final score breakdown, at zero cost when disabled. The contract
// passes a Tracer (enabled or disabled) into the scorer; a disabled Tracer's
// Record calls are no-ops.
package trace

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Event is a single recorded phase event.
type Event struct {
	Name      string                 `json:"name"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Tracer records phase events during one search/score call.
type Tracer interface {
	Record(name string, data map[string]interface{})
	Events() []Event
	Enabled() bool
}

// noop is the zero-cost disabled Tracer.
type noop struct{}

func (noop) Record(string, map[string]interface{}) {}
func (noop) Events() []Event                        { return nil }
func (noop) Enabled() bool                          { return false }

// Noop is the shared disabled Tracer instance.
var Noop Tracer = noop{}

// recording is the enabled Tracer: events accumulate in an in-memory
// buffer for the duration of one call.
type recording struct {
	events []Event
}

func (r *recording) Record(name string, data map[string]interface{}) {
	r.events = append(r.events, Event{Name: name, Data: data, Timestamp: time.Now()})
}
func (r *recording) Events() []Event { return r.events }
func (r *recording) Enabled() bool   { return true }

// New returns a no-op Tracer when enabled is false, or a recording Tracer
// when true. The scorer behaves identically either way; only the tracer's
// cost differs.
func New(enabled bool) Tracer {
	if !enabled {
		return Noop
	}
	return &recording{}
}

// defaultTTL is the 24h bounded lifetime for stored trace records.
const defaultTTL = 24 * time.Hour

// Store holds completed per-request trace records with a bounded TTL,
// backed by an in-memory TTL cache.
type Store struct {
	cache *cache.Cache
}

// NewStore creates a Store evicting entries after the default 24h TTL,
// sweeping expired entries every 10 minutes.
func NewStore() *Store {
	return &Store{cache: cache.New(defaultTTL, 10*time.Minute)}
}

// Put stores the events captured for requestID.
func (s *Store) Put(requestID string, events []Event) {
	s.cache.Set(requestID, events, cache.DefaultExpiration)
}

// Get retrieves a previously stored trace by request ID.
func (s *Store) Get(requestID string) ([]Event, bool) {
	v, ok := s.cache.Get(requestID)
	if !ok {
		return nil, false
	}
	events, ok := v.([]Event)
	return events, ok
}
