package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/stevemurr/sustainability-tracker/action"
)

// SqliteStore keeps the collection in a single SQLite database.
// AUTOINCREMENT guarantees ids are never reused after a delete, which
// the file-backed stores have to track by hand.
type SqliteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		date TEXT NOT NULL,
		points INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) ListAll() ([]action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query("SELECT id, action, date, points FROM actions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []action.Action{}
	for rows.Next() {
		var a action.Action
		if err := rows.Scan(&a.ID, &a.Action, &a.Date, &a.Points); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (s *SqliteStore) Get(id int) (*action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var a action.Action
	err := s.db.QueryRow(
		"SELECT id, action, date, points FROM actions WHERE id = ?", id,
	).Scan(&a.ID, &a.Action, &a.Date, &a.Points)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *SqliteStore) Save(a *action.Action) error {
	if err := validate(a); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		res, err := s.db.Exec(
			"INSERT INTO actions (action, date, points) VALUES (?, ?, ?)",
			a.Action, a.Date, a.Points,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = int(id)
		return nil
	}
	res, err := s.db.Exec(
		"UPDATE actions SET action = ?, date = ?, points = ? WHERE id = ?",
		a.Action, a.Date, a.Points, a.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("DELETE FROM actions WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
