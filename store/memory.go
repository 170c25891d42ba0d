package store

import (
	"sync"

	"github.com/stevemurr/sustainability-tracker/action"
)

// MemoryStore keeps everything in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []action.Action
	lastID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ListAll() ([]action.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]action.Action, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryStore) Get(id int) (*action.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) Save(a *action.Action) error {
	if err := validate(a); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		next := maxID(m.records)
		if next < m.lastID {
			next = m.lastID
		}
		m.lastID = next + 1
		a.ID = m.lastID
		m.records = append(m.records, *a)
		return nil
	}
	for i, r := range m.records {
		if r.ID == a.ID {
			m.records[i] = *a
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Delete(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
