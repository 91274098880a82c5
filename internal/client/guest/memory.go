package guest

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. It backs tests and any context where
// identities should live no longer than the process.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]Identity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Identity)}
}

func (s *MemoryStore) Load(_ context.Context, joinToken string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.slots[StorageKey(joinToken)]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func (s *MemoryStore) Save(_ context.Context, joinToken string, identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[StorageKey(joinToken)] = identity
	return nil
}
