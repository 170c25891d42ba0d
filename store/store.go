// Package store defines the record store interface and its backends.
package store

import (
	"errors"

	"github.com/stevemurr/sustainability-tracker/action"
)

// ErrNotFound is returned by Save when the record id being updated
// does not exist. The original behavior appended such records as new;
// failing loudly avoids inserting stale caller-supplied ids.
var ErrNotFound = errors.New("action not found")

// Store is the interface that all backing stores implement.
//
// Every backend re-runs lenient validation inside Save regardless of
// what already validated the data, and assigns ids itself: a record
// with id 0 gets max(existing)+1 (1 for an empty store). Ids are
// never reused within a store's lifetime, even after deletes.
type Store interface {
	// ListAll returns every record in insertion order. A missing or
	// corrupt backing source reads as an empty collection, never an
	// error.
	ListAll() ([]action.Action, error)

	// Get returns the record with the given id, or nil if absent.
	Get(id int) (*action.Action, error)

	// Save persists a record. Id 0 means create: the assigned id is
	// written back to a. A set id replaces the existing record in
	// place, or fails with ErrNotFound. Invalid records fail with a
	// *action.ValidationError listing every violation.
	Save(a *action.Action) error

	// Delete removes the record with the given id. Returns whether a
	// removal occurred; a missing id is not an error.
	Delete(id int) (bool, error)
}

func validate(a *action.Action) error {
	if errs := a.Validate(); len(errs) > 0 {
		return &action.ValidationError{Errors: errs}
	}
	return nil
}

func maxID(records []action.Action) int {
	m := 0
	for _, r := range records {
		if r.ID > m {
			m = r.ID
		}
	}
	return m
}
