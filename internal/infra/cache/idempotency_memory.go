package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryIdempotencyStore is valid for a single instance only.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryIdempotencyStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok, nil
}

func (s *MemoryIdempotencyStore) PutIfAbsent(_ context.Context, key string, processedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = processedAt
	return true, nil
}

func (s *MemoryIdempotencyStore) Sweep(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for key, processedAt := range s.entries {
		if processedAt.Before(olderThan) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
