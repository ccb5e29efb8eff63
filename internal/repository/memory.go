package repository

import (
	"context"
	"encoding/json"
	"sync"

	"BeykushStoreAPI/internal/model"
)

// MemoryStore keeps snapshots in memory. Used in tests and as the
// fallback when no database is configured. Snapshots go through the
// same JSON round-trip as the Postgres store so serialization bugs
// show up in tests too.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, snap model.CartSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.snaps[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*model.CartSnapshot, error) {
	m.mu.RLock()
	data, ok := m.snaps[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var snap model.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil
	}
	return &snap, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.snaps, sessionID)
	m.mu.Unlock()
	return nil
}
