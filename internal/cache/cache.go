// Package cache defines the lookaside byte cache used by the download
// path and an in-memory implementation of it.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a transient key/value lookaside. Implementations must be safe
// for concurrent use. A miss is reported with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key []byte) (value []byte, ok bool, err error)
	Set(ctx context.Context, key, value []byte) error
	Flush(ctx context.Context) error
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a map-backed Cache. Entries older than the TTL are treated
// as misses; a zero TTL keeps entries until Flush.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-memory cache.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the cached value for key.
func (m *Memory) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[string(key)]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, string(key))
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key, value []byte) error {
	e := entry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[string(key)] = e
	m.mu.Unlock()
	return nil
}

// Flush drops every entry.
func (m *Memory) Flush(context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (m *Memory) Purge(context.Context) (int64, error) {
	now := m.now()
	var n int64

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
