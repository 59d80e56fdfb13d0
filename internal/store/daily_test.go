// ABOUTME: Tests for daily step and body weight storage.
// ABOUTME: Same-day saves replace in place; range reads include both endpoints.
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/harperreed/fittrack/internal/models"
)

func TestSaveStepsReplacesSameDay(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	first := models.NewDailySteps(userID, "2026-03-10", 8000)
	s.SaveSteps(ctx, first)

	second := models.NewDailySteps(userID, "2026-03-10", 10500)
	s.SaveSteps(ctx, second)
	if second.ID != first.ID {
		t.Error("same-day save must adopt the existing record id")
	}

	got, err := s.GetSteps(ctx, userID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetSteps failed: %v", err)
	}
	if got.Count != 10500 {
		t.Errorf("count = %d, want 10500", got.Count)
	}
	if got.Source != models.SourceManual {
		t.Errorf("source = %s", got.Source)
	}
}

func TestGetStepsMissing(t *testing.T) {
	s, userID := setupTestStore(t)

	_, err := s.GetSteps(context.Background(), userID, "2026-03-10")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStepsInRange(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	for _, d := range []struct {
		date  string
		count int
	}{
		{"2026-03-01", 7000}, {"2026-03-02", 9000}, {"2026-03-04", 12000},
	} {
		s.SaveSteps(ctx, models.NewDailySteps(userID, d.date, d.count))
	}

	got := s.GetStepsInRange(ctx, userID, "2026-03-01", "2026-03-02")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Count != 7000 || got[1].Count != 9000 {
		t.Errorf("counts = %d, %d", got[0].Count, got[1].Count)
	}
}

func TestSaveWeightReplacesSameDay(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	first := models.NewDailyWeight(userID, "2026-03-10", 82.4)
	if err := s.SaveWeight(ctx, first); err != nil {
		t.Fatalf("SaveWeight failed: %v", err)
	}

	second := models.NewDailyWeight(userID, "2026-03-10", 82.1)
	if err := s.SaveWeight(ctx, second); err != nil {
		t.Fatalf("second SaveWeight failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("same-day save must adopt the existing record id")
	}

	got, err := s.GetWeight(ctx, userID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetWeight failed: %v", err)
	}
	if got.Weight != 82.1 {
		t.Errorf("weight = %v, want 82.1", got.Weight)
	}
}

func TestLatestWeight(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.LatestWeight(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound with no data, got %v", err)
	}

	for _, d := range []struct {
		date   string
		weight float64
	}{
		{"2026-03-01", 83.0}, {"2026-03-08", 82.2}, {"2026-03-05", 82.6},
	} {
		if err := s.SaveWeight(ctx, models.NewDailyWeight(userID, d.date, d.weight)); err != nil {
			t.Fatalf("SaveWeight failed: %v", err)
		}
	}

	latest, err := s.LatestWeight(ctx, userID)
	if err != nil {
		t.Fatalf("LatestWeight failed: %v", err)
	}
	if latest.Date != "2026-03-08" || latest.Weight != 82.2 {
		t.Errorf("latest = %v on %s", latest.Weight, latest.Date)
	}
}

func TestGetWeightsInRange(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		if err := s.SaveWeight(ctx, models.NewDailyWeight(userID, date, 82)); err != nil {
			t.Fatalf("SaveWeight failed: %v", err)
		}
	}

	got := s.GetWeightsInRange(ctx, userID, "2026-03-02", "2026-03-03")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Date != "2026-03-02" {
		t.Errorf("ascending order: got %s first", got[0].Date)
	}
}
