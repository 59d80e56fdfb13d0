// ABOUTME: Tests for food preset storage.
// ABOUTME: Listings rank recently used presets first; search is prefix-based.
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/fittrack/internal/models"
)

func TestCreateAndGetPreset(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	p := models.NewFoodPreset(userID, "protein shake", 180, 30, 8, 3)
	if err := s.CreatePreset(ctx, p); err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	got, err := s.GetPreset(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPreset failed: %v", err)
	}
	if got.Name != "protein shake" || got.Calories != 180 {
		t.Errorf("preset = %+v", got)
	}
	if got.ServingUnit != "serving" {
		t.Errorf("serving unit = %s", got.ServingUnit)
	}
	if got.LastUsedAt != nil {
		t.Error("new preset should have no last_used_at")
	}
}

func TestListPresetsRanksRecentlyUsedFirst(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	apple := models.NewFoodPreset(userID, "apple", 95, 0.5, 25, 0.3)
	shake := models.NewFoodPreset(userID, "protein shake", 180, 30, 8, 3)
	used := time.Now().UTC()
	shake.LastUsedAt = &used
	for _, p := range []*models.FoodPreset{apple, shake} {
		if err := s.CreatePreset(ctx, p); err != nil {
			t.Fatalf("CreatePreset failed: %v", err)
		}
	}

	list := s.ListPresets(ctx, userID, 0)
	if len(list) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(list))
	}
	if list[0].Name != "protein shake" {
		t.Errorf("recently used should rank first, got %s", list[0].Name)
	}
}

func TestSearchPresetsByPrefix(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"protein shake", "protein bar", "apple"} {
		if err := s.CreatePreset(ctx, models.NewFoodPreset(userID, name, 100, 10, 10, 2)); err != nil {
			t.Fatalf("CreatePreset failed: %v", err)
		}
	}

	got := s.SearchPresets(ctx, userID, "protein")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Name != "protein bar" || got[1].Name != "protein shake" {
		t.Errorf("matches = %s, %s", got[0].Name, got[1].Name)
	}
}

func TestDeletePreset(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	p := models.NewFoodPreset(userID, "apple", 95, 0.5, 25, 0.3)
	if err := s.CreatePreset(ctx, p); err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}
	if err := s.DeletePreset(ctx, p.ID); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	if _, err := s.GetPreset(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
