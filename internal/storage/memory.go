package storage

import "sync"

// MemoryStore is a map backed key-value store. It counts writes so callers
// can observe how often the persistence primitive was touched.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	gets   int
	sets   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.values[key] = value
	return nil
}

// SetCount is the number of Set calls so far
func (m *MemoryStore) SetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// GetCount is the number of Get calls so far
func (m *MemoryStore) GetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}
