package storage

import "sync"

type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	usage int64
	limit int64
}

func NewMemoryStore(limit int64) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		limit: limit,
	}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var oldSize int64
	if old, ok := m.data[key]; ok {
		oldSize = entrySize(key, old)
	}
	newSize := entrySize(key, value)
	if !fits(m.limit, m.usage, oldSize, newSize) {
		return ErrQuotaExceeded
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	m.usage += newSize - oldSize
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.usage -= entrySize(key, old)
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryStore) Usage() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usage
}

func (m *MemoryStore) Close() error {
	return nil
}
