package store

import (
	"fmt"
	"path/filepath"
)

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"json"   - JSON array file at dataDir/actions.json (default)
//	"sqlite" - SQLite database at dataDir/actions.db
//	"memory" - In-memory (ephemeral, for testing)
//
// The "s3" backend needs AWS credentials and is constructed
// explicitly with NewS3Store.
func New(backend, dataDir string) (Store, error) {
	switch backend {
	case "json", "":
		return NewJSONFileStore(filepath.Join(dataDir, "actions.json"))
	case "sqlite":
		return NewSqliteStore(filepath.Join(dataDir, "actions.db"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, sqlite, memory, s3)", backend)
	}
}
