package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache with per-entry TTL. It backs tests and
// cacheless development setups; production wiring uses Redis.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemory creates an in-memory cache whose entries expire after ttl.
// A non-positive ttl keeps entries until invalidated.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func memoryKey(ns, key string) string {
	return ns + ":" + key
}

func (m *Memory) Get(_ context.Context, ns, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[memoryKey(ns, key)]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		// Lazy expiry: drop the stale entry on the next write lock.
		m.mu.Lock()
		delete(m.entries, memoryKey(ns, key))
		m.mu.Unlock()
		return nil, ErrMiss
	}
	return entry.value, nil
}

func (m *Memory) Set(_ context.Context, ns, key string, value []byte) error {
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expiresAt = time.Now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[memoryKey(ns, key)] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(_ context.Context, ns, key string) error {
	m.mu.Lock()
	delete(m.entries, memoryKey(ns, key))
	m.mu.Unlock()
	return nil
}

func (m *Memory) InvalidateAll(_ context.Context, ns string) error {
	prefix := ns + ":"

	m.mu.Lock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries, for tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
