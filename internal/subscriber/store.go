// Package subscriber keeps the durable sets of chat ids the bot serves.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"FuelSentinel/internal/metrics"
)

// Store is a set of chat ids mirrored to a Backend. Every mutation rewrites
// the full set while holding the lock, so the persisted set always equals
// the in-memory one.
type Store struct {
	mu      sync.Mutex
	name    string
	ids     map[int64]struct{}
	backend Backend
}

// NewStore creates an empty store; call Load to populate it.
func NewStore(name string, backend Backend) *Store {
	return &Store{
		name:    name,
		ids:     make(map[int64]struct{}),
		backend: backend,
	}
}

// Name returns the store label used in logs and metrics.
func (s *Store) Name() string { return s.name }

// Load replaces the in-memory set with the backend contents. Malformed
// entries are logged and skipped.
func (s *Store) Load(ctx context.Context) error {
	ids, err := s.backend.Load(ctx)
	var corrupt *CorruptError
	if errors.As(err, &corrupt) {
		log.WithFields(log.Fields{
			"store":   s.name,
			"backend": s.backend.Name(),
			"skipped": len(corrupt.Entries),
		}).Warnf("ignoring malformed subscriber entries: %v", corrupt)
		err = nil
	}
	if err != nil {
		return fmt.Errorf("load %s store: %w", s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	metrics.SetSubscribers(s.name, len(s.ids))
	log.WithFields(log.Fields{"store": s.name, "count": len(s.ids)}).Info("subscriber store loaded")
	return nil
}

// Add inserts id. Returns false without touching storage if it was already present.
func (s *Store) Add(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	if err := s.save(ctx); err != nil {
		delete(s.ids, id)
		return false, err
	}
	return true, nil
}

// Remove deletes id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; !ok {
		return false, nil
	}
	delete(s.ids, id)
	if err := s.save(ctx); err != nil {
		s.ids[id] = struct{}{}
		return false, err
	}
	return true, nil
}

// Contains reports whether id is in the set.
func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns a sorted snapshot of the set.
func (s *Store) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted()
}

// Len returns the number of ids.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Store) sorted() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.sorted()); err != nil {
		return fmt.Errorf("save %s store: %w", s.name, err)
	}
	metrics.SetSubscribers(s.name, len(s.ids))
	return nil
}
