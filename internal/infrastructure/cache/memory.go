package cache

import (
	"sync"
	"time"
)

// MemoryStore is an in-process key-value cache with per-entry TTL. The
// insights service keeps the template catalog warm in one of these
// between batch extractions.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     any
	expiresAt time.Time
}

// NewMemoryStore creates the store and starts its sweep goroutine. The
// store lives for the whole process; there is no teardown.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]memoryItem),
	}

	go store.sweep()

	return store
}

// Set stores value under key for ttl.
func (ms *MemoryStore) Set(key string, value any, ttl time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = memoryItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Get returns the live value under key. Expired entries read as absent
// even before the sweeper removes them.
func (ms *MemoryStore) Get(key string) (any, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, ok := ms.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Delete removes a key
func (ms *MemoryStore) Delete(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
}

// sweep periodically removes expired items
func (ms *MemoryStore) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if now.After(item.expiresAt) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
