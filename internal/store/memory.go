package store

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no usable snapshot exists for a key.
var ErrNotFound = errors.New("no snapshot for key")

// Snapshot is a cached last-good API result.
type Snapshot struct {
	Payload   json.RawMessage
	FetchedAt time.Time
}

// MemoryStore is a concurrency-safe cache of the last successful
// result per key. The HTTP layer reads it as a fallback when a live
// upstream fetch fails.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]Snapshot

	// maxAge bounds how stale a served fallback may be; 0 = unlimited.
	maxAge time.Duration
}

// NewMemoryStore creates a MemoryStore with an optional staleness bound.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]Snapshot),
		maxAge: maxAge,
	}
}

// Save records the latest good payload for a key.
func (s *MemoryStore) Save(key string, payload json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = Snapshot{
		Payload:   payload,
		FetchedAt: time.Now(),
	}
}

// Latest returns the last-good snapshot for a key, if one exists and is
// not older than the configured bound.
func (s *MemoryStore) Latest(key string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[key]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && time.Since(snap.FetchedAt) > s.maxAge {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}
