// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides setupTestDB for creating isolated database instances.
package storage

import (
	"io"
	"log"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
