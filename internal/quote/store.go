package quote

import (
	"context"
	"sync"
)

// SnapshotStore round-trips a session's quote snapshot through the durable
// slot. Load never fails: absent, unreadable, or corrupt snapshots degrade
// to an empty quote. Save overwrites the full snapshot and reports errors
// for the caller to log; it must not be treated as fatal.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) []LineItem
	Save(ctx context.Context, sessionID string, items []LineItem) error
}

// MemoryStore keeps snapshots in process memory. It backs tests and acts as
// a last-resort fallback when no durable backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]LineItem
}

// NewMemoryStore builds an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]LineItem)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.data[sessionID])
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = cloneItems(items)
	return nil
}
