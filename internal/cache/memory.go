// Package cache provides a small in-process TTL key-value store.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is a concurrency-safe in-memory store with per-entry expiration.
// Expired entries read as misses and are evicted lazily on access; there is
// no background sweeper because the working set is a handful of feeds.
type Memory[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	now   func() time.Time
}

// NewMemory creates an empty store.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		items: make(map[string]entry[V]),
		now:   time.Now,
	}
}

// Get returns the live value for key. Expired or absent keys report a miss.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have renewed it.
		if cur, ok := m.items[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Put stores value under key for ttl. A non-positive ttl means "never store":
// the call is a no-op and any previous entry is left to expire on its own.
func (m *Memory[V]) Put(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.items[key] = entry[V]{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
