package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory KV store for tests/dev. It is per process, so
// the budget cap only holds for a single instance.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements insight.KVStore.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.hasExpired(entry.expiresAt) {
		s.mu.Lock()
		// a Put may have replaced the entry since the read lock was released
		if current, ok := s.entries[key]; ok && s.hasExpired(current.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Put stores value with an optional TTL.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: exp,
	}
	return nil
}

// Delete removes key if present.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ insight.KVStore = (*MemoryStore)(nil)
