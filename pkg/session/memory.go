package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory store implementation.
// It's the default store and suitable for single-server deployments.
// For multi-server deployments, use RedisStore, SQLStore or S3Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

// Save stores a copy of data under key.
func (m *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	m.values[key] = cloneBytes(data)
	return nil
}

// Load retrieves a copy of the value stored under key.
func (m *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed{}
	}

	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return cloneBytes(v), nil
}

// SaveIfAbsent stores data only when key has no value yet.
func (m *MemoryStore) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, false, ErrStoreClosed{}
	}

	if existing, ok := m.values[key]; ok {
		return cloneBytes(existing), false, nil
	}
	m.values[key] = cloneBytes(data)
	return cloneBytes(data), true, nil
}

// Delete removes a key from the store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	delete(m.values, key)
	return nil
}

// Close shuts down the store and drops all values.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	m.values = nil
	return nil
}

// Count returns the number of keys in the store.
// This is for monitoring/testing purposes.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
