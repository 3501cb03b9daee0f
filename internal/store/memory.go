package store

import (
	"sort"
	"sync"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get retrieves a procedure's source by name.
func (m *Memory) Get(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[name], nil
}

// Put stores a procedure's source by name.
func (m *Memory) Put(name string, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = src
	return nil
}

// Delete removes a procedure by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// List returns all stored procedure names, sorted.
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
