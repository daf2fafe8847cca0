package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process KV store with the same contract as KVRepo.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, userID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[userID][key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, userID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(userID, key, value)
	return nil
}

func (m *MemoryStore) SetMany(_ context.Context, userID string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.setLocked(userID, k, v)
	}
	return nil
}

func (m *MemoryStore) setLocked(userID, key, value string) {
	u, ok := m.data[userID]
	if !ok {
		u = map[string]string{}
		m.data[userID] = u
	}
	u[key] = value
}

func (m *MemoryStore) Delete(_ context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[userID], key)
	return nil
}

func (m *MemoryStore) ListAll(_ context.Context, userID string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data[userID]))
	for k, v := range m.data[userID] {
		out[k] = v
	}
	return out, nil
}

// Users returns every user with at least one key, sorted.
func (m *MemoryStore) Users(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for id, kv := range m.data {
		if len(kv) > 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
