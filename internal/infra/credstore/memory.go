package credstore

import (
	"context"
	"sync"
)

type MemoryPersister struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{values: make(map[string]string)}
}

func (m *MemoryPersister) Load(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryPersister) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
