package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/stevemurr/sustainability-tracker/action"
)

// JSONFileStore keeps the whole collection as a single JSON array on
// disk and rewrites it wholesale on every mutation. Each rewrite goes
// through a temp file and a rename, so readers only ever see a prior
// or a subsequent fully written state, never a partial one.
//
// A missing backing file is initialized to an empty array; a corrupt
// one reads as empty. Concurrent writers in separate processes can
// still lose updates to each other - this store only serializes
// access within one process.
type JSONFileStore struct {
	mu     sync.RWMutex
	path   string
	lastID int
}

// NewJSONFileStore creates a store backed by the JSON array file at
// path, creating the file (and parent directories) if needed.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &JSONFileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
	}
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	s.lastID = maxID(records)
	return s, nil
}

// load reads the backing file. Absence and corruption both read as an
// empty collection; only a real I/O failure is an error.
func (s *JSONFileStore) load() ([]action.Action, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []action.Action
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

func (s *JSONFileStore) write(records []action.Action) error {
	if records == nil {
		records = []action.Action{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *JSONFileStore) ListAll() ([]action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *JSONFileStore) Get(id int) (*action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *JSONFileStore) Save(a *action.Action) error {
	if err := validate(a); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return err
	}
	if a.ID == 0 {
		// High-water mark: deleting the current max must not make
		// its id reusable within this store's lifetime.
		next := maxID(records)
		if next < s.lastID {
			next = s.lastID
		}
		s.lastID = next + 1
		a.ID = s.lastID
		records = append(records, *a)
		return s.write(records)
	}
	for i, r := range records {
		if r.ID == a.ID {
			records[i] = *a
			return s.write(records)
		}
	}
	return ErrNotFound
}

func (s *JSONFileStore) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return false, err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	return true, s.write(kept)
}
