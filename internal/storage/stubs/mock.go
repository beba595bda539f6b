package stubs

import (
	"context"
	"sort"
	"sync"

	"questory/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int

	// FailWrites makes every Set and Delete return this error when non-nil
	FailWrites error
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		values: make(map[string][]byte),
	}
}

// Initialize is a no-op for the in-memory store
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// Get returns a copy of the stored value
func (m *MockDB) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value
func (m *MockDB) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}

	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	m.writes++
	return nil
}

// Delete removes a key
func (m *MockDB) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}

	delete(m.values, key)
	m.writes++
	return nil
}

// Keys returns all stored keys sorted by name
func (m *MockDB) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Writes returns how many successful writes the store has accepted
func (m *MockDB) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}
