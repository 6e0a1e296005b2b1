package riskconfig

import (
	"strings"
	"sync"
)

// Repository is the flat key->value table backing the configuration store.
// Implementations must make SetAll and Replace atomic: no reader may observe
// a half-applied set of values.
type Repository interface {
	// Get returns the stored value for key; the second return is false when
	// the key has never been written
	Get(key string) (string, bool, error)
	// List returns all key/value pairs whose key starts with prefix
	List(prefix string) (map[string]string, error)
	// SetAll inserts or replaces all given pairs as one atomic write
	SetAll(values map[string]string) error
	// Replace atomically deletes every key under prefix and writes values
	Replace(prefix string, values map[string]string) error
	// DeletePrefix removes every key under prefix
	DeletePrefix(prefix string) error
}

// MemoryRepository implements Repository with an in-memory map. It backs unit
// tests and single-process deployments without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryRepository creates an empty in-memory configuration repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]string)}
}

func (m *MemoryRepository) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryRepository) List(prefix string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range m.values {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryRepository) SetAll(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryRepository) Replace(prefix string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryRepository) DeletePrefix(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	return nil
}
