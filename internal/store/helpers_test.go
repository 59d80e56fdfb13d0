// ABOUTME: Shared test helpers for the domain store tests.
// ABOUTME: Each test gets an isolated SQLite database, outbox, and local user.
package store

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db, outbox.New(db, logger), logger)
	u, err := s.EnsureUser(context.Background(), "test")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return s, u.ID
}

func mustSaveWorkout(t *testing.T, s *Store, w *models.WorkoutLog) []models.PersonalRecord {
	t.Helper()
	records, err := s.SaveWorkout(context.Background(), w)
	if err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}
	return records
}
