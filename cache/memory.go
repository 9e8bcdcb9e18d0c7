package cache

import (
	"context"
	"sync"
	"time"
)

// Expired entries are swept on Save once the map reaches sweepMinEntries
// entries or sweepInterval has passed since the last sweep.
const (
	sweepMinEntries = 1024
	sweepInterval   = time.Minute
)

// MemoryStore is a mutex-guarded in-process Store. Values are copied on
// Save and Load, so callers never share a cached value.
type MemoryStore[V any] struct {
	mu        sync.RWMutex
	items     map[string]memEntry[V]
	now       func() time.Time
	lastSweep time.Time
	nextSweep int
}

type memEntry[V any] struct {
	val       V
	expiresAt time.Time
}

func (e memEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

var _ Store[any] = (*MemoryStore[any])(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{
		items:     make(map[string]memEntry[V]),
		now:       time.Now,
		nextSweep: sweepMinEntries,
	}
}

// Load returns a copy of the value for key, or nil if it is missing or
// expired.
func (s *MemoryStore[V]) Load(_ context.Context, key string) (*V, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		if cur, ok := s.items[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, nil
	}
	val := e.val
	return &val, nil
}

// Save stores a copy of val under key. A nil val deletes the key.
func (s *MemoryStore[V]) Save(ctx context.Context, key string, val *V, ttl time.Duration) error {
	if val == nil {
		return s.Delete(ctx, key)
	}
	now := s.now()
	e := memEntry[V]{val: *val}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = e
	if len(s.items) >= s.nextSweep || now.Sub(s.lastSweep) >= sweepInterval {
		s.sweepLocked(now)
	}
	s.mu.Unlock()
	return nil
}

// Delete removes key.
func (s *MemoryStore[V]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Purge removes every expired entry and returns how many were removed.
func (s *MemoryStore[V]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *MemoryStore[V]) sweepLocked(now time.Time) int {
	removed := 0
	for key, e := range s.items {
		if e.expired(now) {
			delete(s.items, key)
			removed++
		}
	}
	s.lastSweep = now
	s.nextSweep = max(sweepMinEntries, 2*len(s.items))
	return removed
}

// Len returns the number of entries, including expired ones not yet swept.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
