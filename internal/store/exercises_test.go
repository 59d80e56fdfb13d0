// ABOUTME: Tests for custom exercise storage.
// ABOUTME: Custom definitions extend the built-in catalog per user.
package store

import (
	"context"
	"testing"

	"github.com/harperreed/fittrack/internal/models"
)

func TestSaveListDeleteCustomExercise(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	e := models.NewCustomExercise(userID, "Zercher Squat", "legs")
	e.Equipment = "barbell"
	if err := s.SaveCustomExercise(ctx, e); err != nil {
		t.Fatalf("SaveCustomExercise failed: %v", err)
	}

	list := s.ListCustomExercises(ctx, userID)
	if len(list) != 1 {
		t.Fatalf("expected 1 exercise, got %d", len(list))
	}
	if list[0].Name != "Zercher Squat" || list[0].MuscleGroup != "legs" {
		t.Errorf("exercise = %+v", list[0])
	}

	if err := s.DeleteCustomExercise(ctx, e.ID); err != nil {
		t.Fatalf("DeleteCustomExercise failed: %v", err)
	}
	if got := s.ListCustomExercises(ctx, userID); len(got) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(got))
	}
}
