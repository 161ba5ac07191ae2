package maya

import (
	"context"
	"sync"
	"time"
)

type inMemoryEntry struct {
	turns     []Turn
	expiresAt time.Time
}

// InMemoryMemoryStorage is an in-memory implementation of MemoryStorage.
// It honors the same retention semantics as the remote stores and is
// intended for tests and local runs without Redis.
type InMemoryMemoryStorage struct {
	entries   map[string]inMemoryEntry
	retention time.Duration
	now       func() time.Time
	mu        sync.RWMutex
}

// NewInMemoryMemoryStorage creates a new instance of InMemoryMemoryStorage.
func NewInMemoryMemoryStorage(retention time.Duration) *InMemoryMemoryStorage {
	return &InMemoryMemoryStorage{
		entries:   make(map[string]inMemoryEntry),
		retention: retention,
		now:       time.Now,
	}
}

// GetHistory retrieves the stored turns for a user. An expired entry is
// treated as absent.
func (s *InMemoryMemoryStorage) GetHistory(ctx context.Context, userID string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[userID]
	if !exists || s.now().After(entry.expiresAt) {
		return []Turn{}, nil
	}

	turns := make([]Turn, len(entry.turns))
	copy(turns, entry.turns)
	return turns, nil
}

// SaveHistory replaces the user's stored turns and refreshes the expiry.
func (s *InMemoryMemoryStorage) SaveHistory(ctx context.Context, userID string, turns []Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Turn, len(turns))
	copy(stored, turns)
	s.entries[userID] = inMemoryEntry{
		turns:     stored,
		expiresAt: s.now().Add(s.retention),
	}
	return nil
}

// DeleteHistory removes the user's stored turns.
func (s *InMemoryMemoryStorage) DeleteHistory(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

// CountUsers returns the number of distinct users with unexpired history.
func (s *InMemoryMemoryStorage) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, entry := range s.entries {
		if !s.now().After(entry.expiresAt) {
			count++
		}
	}
	return count, nil
}
