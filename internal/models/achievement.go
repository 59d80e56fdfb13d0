// ABOUTME: Achievement model, a progress-tracked badge recomputed from aggregates.
// ABOUTME: Unlocked state is monotonic; progress keeps updating after unlock.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Achievement keys.
const (
	AchFirstWorkout = "first_workout"
	AchWorkouts10   = "workouts_10"
	AchWorkouts50   = "workouts_50"
	AchWorkouts100  = "workouts_100"
	AchStreak7      = "streak_7"
	AchStreak30     = "streak_30"
	AchVolume10k    = "volume_10k"
	AchVolume100k   = "volume_100k"
	AchRecords5     = "records_5"
	AchRecords25    = "records_25"
)

// Achievement tracks progress toward a badge.
type Achievement struct {
	ID         uuid.UUID
	UserID     string
	Key        string
	Current    float64
	Target     float64
	Unlocked   bool
	UnlockedAt *time.Time
	UpdatedAt  time.Time
}

// NewAchievement creates a locked achievement at zero progress.
func NewAchievement(userID, key string, target float64) *Achievement {
	return &Achievement{
		ID:        uuid.New(),
		UserID:    userID,
		Key:       key,
		Target:    target,
		UpdatedAt: time.Now().UTC(),
	}
}

// Progress applies a new current value, unlocking when the target is reached.
// Returns true if this call unlocked the achievement.
func (a *Achievement) Progress(current float64) bool {
	a.Current = current
	a.UpdatedAt = time.Now().UTC()
	if !a.Unlocked && current >= a.Target {
		a.Unlocked = true
		now := time.Now().UTC()
		a.UnlockedAt = &now
		return true
	}
	return false
}
