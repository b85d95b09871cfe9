package cache

import (
	"context"
	"sync"
	"time"

	appbilling "github.com/ndutagrace25/esperanza-internal/internal/application/billing"
)

type runEntry struct {
	expiresAt time.Time
}

// InMemoryRunStore deduplicates reminder batch runs using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryRunStore struct {
	mu        sync.Mutex
	retention time.Duration
	entries   map[string]runEntry
}

// NewInMemoryRunStore creates an in-memory reminder run store
func NewInMemoryRunStore(retention time.Duration) *InMemoryRunStore {
	return &InMemoryRunStore{
		retention: retention,
		entries:   make(map[string]runEntry),
	}
}

// TryBegin atomically claims a run key. Returns true if this caller owns the
// run, false if the batch already ran.
func (s *InMemoryRunStore) TryBegin(ctx context.Context, runKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if e, exists := s.entries[runKey]; exists && now.Before(e.expiresAt) {
		return false, nil
	}

	// Expired keys are cheap to sweep here since batches run at most daily
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}

	s.entries[runKey] = runEntry{expiresAt: now.Add(s.retention)}
	return true, nil
}

// Size returns the number of live entries (for testing)
func (s *InMemoryRunStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ appbilling.ReminderRunStore = (*InMemoryRunStore)(nil)
