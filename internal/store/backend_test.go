// ABOUTME: Runs core store flows against the document-store backend.
// ABOUTME: The store only sees the Querier interface; both backends must agree.
package store

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/harperreed/fittrack/internal/docstore"
	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
)

func setupBadgerStore(t *testing.T) (*Store, string) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	db, err := docstore.Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to open badger store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db, outbox.New(db, logger), logger)
	u, err := s.EnsureUser(context.Background(), "test")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return s, u.ID
}

func TestWorkoutRoundtripOnBadger(t *testing.T) {
	s, userID := setupBadgerStore(t)
	ctx := context.Background()

	w := models.NewWorkoutLog(userID, "2026-03-10", "Push Day")
	e := w.AddExercise("Bench Press")
	e.AddSet(8, 80)
	e.AddSet(6, 85).WithRPE(9)

	records, err := s.SaveWorkout(ctx, w)
	if err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected one new record, got %d", len(records))
	}

	got, err := s.GetWorkout(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if got.Name != "Push Day" || len(got.Exercises) != 1 || len(got.Exercises[0].Sets) != 2 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.Exercises[0].Sets[1].RPE == nil || *got.Exercises[0].Sets[1].RPE != 9 {
		t.Errorf("RPE lost on roundtrip: %+v", got.Exercises[0].Sets[1])
	}

	page := s.ListWorkouts(ctx, userID, 10, 0)
	if page.Total != 1 {
		t.Errorf("ListWorkouts total = %d, want 1", page.Total)
	}
}

func TestCascadeDeleteOnBadger(t *testing.T) {
	s, userID := setupBadgerStore(t)
	ctx := context.Background()

	w := models.NewWorkoutLog(userID, "2026-03-10", "Push Day")
	w.AddExercise("Bench Press").AddSet(8, 80)
	if _, err := s.SaveWorkout(ctx, w); err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}

	if err := s.DeleteWorkout(ctx, w.ID); err != nil {
		t.Fatalf("DeleteWorkout failed: %v", err)
	}
	if _, err := s.GetWorkout(ctx, w.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if page := s.ListWorkouts(ctx, userID, 10, 0); page.Total != 0 {
		t.Errorf("workout still listed after delete: %d", page.Total)
	}
}

func TestDailyRecordsOnBadger(t *testing.T) {
	s, userID := setupBadgerStore(t)
	ctx := context.Background()

	s.SaveSteps(ctx, models.NewDailySteps(userID, "2026-03-10", 9200))
	steps, err := s.GetSteps(ctx, userID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetSteps failed: %v", err)
	}
	if steps.Count != 9200 {
		t.Errorf("steps = %d, want 9200", steps.Count)
	}

	if err := s.SaveWeight(ctx, models.NewDailyWeight(userID, "2026-03-10", 82.5)); err != nil {
		t.Fatalf("SaveWeight failed: %v", err)
	}
	latest, err := s.LatestWeight(ctx, userID)
	if err != nil {
		t.Fatalf("LatestWeight failed: %v", err)
	}
	if latest.Weight != 82.5 {
		t.Errorf("weight = %.1f, want 82.5", latest.Weight)
	}
}
