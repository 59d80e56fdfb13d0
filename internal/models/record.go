// ABOUTME: PersonalRecord model and the weight/reps tie-break rule.
// ABOUTME: At most one active PR per (user, exercise name); higher weight wins, then higher reps.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PersonalRecord is the best (weight, reps) pair for a user and exercise.
type PersonalRecord struct {
	ID           uuid.UUID
	UserID       string
	ExerciseName string // normalized lowercase
	Weight       float64
	Reps         int
	WorkoutLogID uuid.UUID
	AchievedOn   string // YYYY-MM-DD
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeExerciseName lowercases and trims an exercise name for PR keys.
func NormalizeExerciseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeatsRecord reports whether (weight, reps) strictly improves on (curWeight, curReps).
// Higher weight wins; at equal weight, higher reps wins.
func BeatsRecord(weight float64, reps int, curWeight float64, curReps int) bool {
	if weight != curWeight {
		return weight > curWeight
	}
	return reps > curReps
}

// BestSet returns the best completed set of an exercise by the tie-break rule,
// or nil if no set is completed.
func BestSet(sets []SetLog) *SetLog {
	var best *SetLog
	for i := range sets {
		s := &sets[i]
		if !s.Completed {
			continue
		}
		if best == nil || BeatsRecord(s.Weight, s.Reps, best.Weight, best.Reps) {
			best = s
		}
	}
	return best
}
