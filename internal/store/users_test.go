// ABOUTME: Tests for user profile storage and current-user bookkeeping.
// ABOUTME: First run creates an anonymous local user; later runs reuse it.
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/harperreed/fittrack/internal/models"
)

func TestEnsureUserCreatesLocalUserOnce(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	if !models.IsLocalUserID(userID) {
		t.Errorf("first-run user id %q should carry the local prefix", userID)
	}

	again, err := s.EnsureUser(ctx, "someone else")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if again.ID != userID {
		t.Error("EnsureUser must reuse the existing user")
	}
}

func TestEnsureUserDefaults(t *testing.T) {
	s, userID := setupTestStore(t)

	u, err := s.GetUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Units != models.UnitsMetric {
		t.Errorf("units = %s, want metric", u.Units)
	}
	if u.CalorieTarget != 2000 || u.StepTarget != 10000 {
		t.Errorf("targets = %d kcal, %d steps", u.CalorieTarget, u.StepTarget)
	}
}

func TestSaveUserUpdatesProfile(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	u.Name = "Sam"
	u.Units = models.UnitsImperial
	u.CalorieTarget = 2400
	if err := s.SaveUser(ctx, u); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	got, err := s.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Sam" || got.Units != models.UnitsImperial || got.CalorieTarget != 2400 {
		t.Errorf("profile = %+v", got)
	}
}

func TestCurrentUserTracksSetCurrentUser(t *testing.T) {
	s, userID := setupTestStore(t)
	ctx := context.Background()

	cur, err := s.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if cur.ID != userID {
		t.Errorf("current user = %s, want %s", cur.ID, userID)
	}
}

func TestGetUserMissing(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.GetUser(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
