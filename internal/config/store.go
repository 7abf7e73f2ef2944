package config

import (
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the live ScoreConfig behind an atomic pointer so a scorer
// reading multiple fields in one pass always observes a single consistent
// generation, per the "never permit a scorer to observe nameWeight and
// addressWeight from different generations" design note.
type Store struct {
	current atomic.Pointer[ScoreConfig]
	log     *zap.Logger
}

// NewStore creates a Store seeded with initial. initial is validated.
func NewStore(initial ScoreConfig, log *zap.Logger) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	s := &Store{log: log}
	s.current.Store(&initial)
	return s, nil
}

// Get returns the current configuration snapshot. Callers should fetch one
// snapshot per request rather than calling Get repeatedly mid-computation.
func (s *Store) Get() ScoreConfig {
	return *s.current.Load()
}

// Replace atomically swaps in a new, validated configuration.
func (s *Store) Replace(next ScoreConfig) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(&next)
	return nil
}

// ReplaceSimilarity atomically swaps only the similarity knobs, preserving
// the current weights.
func (s *Store) ReplaceSimilarity(sim SimilarityConfig) error {
	next := s.Get()
	next.Similarity = sim
	return s.Replace(next)
}

// ReplaceWeights atomically swaps only the weight knobs, preserving the
// current similarity config.
func (s *Store) ReplaceWeights(w WeightConfig) error {
	next := s.Get()
	next.Weights = w
	return s.Replace(next)
}

// Reset restores the documented defaults.
func (s *Store) Reset() error {
	return s.Replace(Default())
}

// WatchFile watches path for writes and reloads the JSON-encoded ScoreConfig
// found there, logging and ignoring a malformed file rather than crashing
// the process. Returns a stop function.
func (s *Store) WatchFile(path string) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.reloadFile(path); err != nil && s.log != nil {
					s.log.Warn("config reload failed, keeping previous config", zap.String("path", path), zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if s.log != nil {
					s.log.Warn("config watcher error", zap.Error(err))
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func (s *Store) reloadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var next ScoreConfig
	if err := json.Unmarshal(data, &next); err != nil {
		return err
	}
	return s.Replace(next)
}
