package cache

import (
	"sync"
	"time"
)

// TTLMap is an in-memory map whose entries expire. One instance is built per
// process and handed to whatever needs it.
type TTLMap[V any] struct {
	mu    sync.RWMutex
	items map[string]ttlEntry[V]
	now   func() time.Time
}

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

func NewTTLMap[V any](now func() time.Time) *TTLMap[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLMap[V]{items: make(map[string]ttlEntry[V]), now: now}
}

func (m *TTLMap[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, still := m.items[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (m *TTLMap[V]) Set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	m.items[key] = ttlEntry[V]{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

func (m *TTLMap[V]) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *TTLMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Cleanup removes expired entries.
func (m *TTLMap[V]) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
		}
	}
}
