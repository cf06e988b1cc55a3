package memory

import (
	"context"
	"sync"

	"github.com/xrexb2b/payflow-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore in process memory.
// Values do not survive a restart, which matches session-scoped storage.
type kvStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKVStore creates an empty in-memory key/value store
func NewKVStore() domain.KeyValueStore {
	return &kvStore{values: make(map[string]string)}
}

// Get retrieves the value stored under key
func (s *kvStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.values[key]
	return value, found, nil
}

// Set overwrites the value stored under key
func (s *kvStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
