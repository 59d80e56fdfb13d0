// ABOUTME: Tests for the nutrition storage module.
// ABOUTME: Covers the one-record-per-day rule, meal replacement, ranges, and preset touching.
package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/harperreed/fittrack/internal/models"
)

func TestSaveNutritionKeepsIDForSameDay(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	first := models.NewDailyNutrition(userID, "2026-03-10")
	first.AddMeal("oatmeal", 350, 12, 60, 6)
	if err := s.SaveNutrition(ctx, first); err != nil {
		t.Fatalf("SaveNutrition failed: %v", err)
	}

	// A second record for the same day adopts the first one's identity.
	second := models.NewDailyNutrition(userID, "2026-03-10")
	second.AddMeal("chicken and rice", 650, 45, 70, 15)
	second.AddMeal("yogurt", 150, 15, 10, 5)
	if err := s.SaveNutrition(ctx, second); err != nil {
		t.Fatalf("second SaveNutrition failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("same-day save must keep the original record id")
	}

	got, err := s.GetNutrition(ctx, userID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetNutrition failed: %v", err)
	}
	if got.ID != first.ID {
		t.Error("stored record id changed")
	}
	if len(got.Meals) != 2 {
		t.Fatalf("expected the later save's 2 meals, got %d", len(got.Meals))
	}
	if got.Meals[0].Name != "chicken and rice" || got.Meals[1].Name != "yogurt" {
		t.Errorf("meals = %s, %s", got.Meals[0].Name, got.Meals[1].Name)
	}
}

func TestGetNutritionMissingDay(t *testing.T) {
	s, userID := setupTestStore(t)

	_, err := s.GetNutrition(context.Background(), userID, "2026-03-10")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetNutritionInRange(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	for i, date := range []string{"2026-03-01", "2026-03-02", "2026-03-05"} {
		n := models.NewDailyNutrition(userID, date)
		n.AddMeal(fmt.Sprintf("meal %d", i), 500, 30, 50, 15)
		if err := s.SaveNutrition(ctx, n); err != nil {
			t.Fatalf("SaveNutrition failed: %v", err)
		}
	}

	got := s.GetNutritionInRange(ctx, userID, "2026-03-01", "2026-03-02")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, n := range got {
		if len(n.Meals) != 1 {
			t.Errorf("%s: %d meals, want 1", n.Date, len(n.Meals))
		}
	}
	cal, protein, _, _ := got[0].Totals()
	if cal != 500 || protein != 30 {
		t.Errorf("totals = %v kcal, %v protein", cal, protein)
	}
}

func TestDeleteMeal(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	n := models.NewDailyNutrition(userID, "2026-03-10")
	n.AddMeal("oatmeal", 350, 12, 60, 6)
	keep := n.AddMeal("eggs", 220, 18, 2, 15)
	if err := s.SaveNutrition(ctx, n); err != nil {
		t.Fatalf("SaveNutrition failed: %v", err)
	}

	if err := s.DeleteMeal(ctx, n.Meals[0].ID); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}

	got, err := s.GetNutrition(ctx, userID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetNutrition failed: %v", err)
	}
	if len(got.Meals) != 1 || got.Meals[0].ID != keep.ID {
		t.Errorf("meals after delete = %+v", got.Meals)
	}
}

func TestMealFromPresetTouchesPreset(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	p := models.NewFoodPreset(userID, "protein shake", 180, 30, 8, 3)
	if err := s.CreatePreset(ctx, p); err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	n := models.NewDailyNutrition(userID, "2026-03-10")
	n.AddMeal("", 0, 0, 0, 0).FromPreset(p, 1.5)
	if err := s.SaveNutrition(ctx, n); err != nil {
		t.Fatalf("SaveNutrition failed: %v", err)
	}

	got, err := s.GetNutrition(ctx, userID, "2026-03-10")
	if err != nil {
		t.Fatalf("GetNutrition failed: %v", err)
	}
	m := got.Meals[0]
	if m.PresetID == nil || *m.PresetID != p.ID {
		t.Error("meal should reference the preset")
	}
	if m.Calories != 270 || m.Protein != 45 {
		t.Errorf("scaled macros = %v kcal, %v protein", m.Calories, m.Protein)
	}

	// Logging from a preset bumps its recency.
	stored, err := s.GetPreset(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPreset failed: %v", err)
	}
	if stored.LastUsedAt == nil {
		t.Error("preset last_used_at should be set after use")
	}
}
