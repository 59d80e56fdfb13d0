// ABOUTME: CustomExercise model extending the built-in exercise catalog.
// ABOUTME: User-defined exercises participate in PR and achievement lookups.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomExercise is a user-defined exercise.
type CustomExercise struct {
	ID          uuid.UUID
	UserID      string
	Name        string
	MuscleGroup string
	Equipment   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCustomExercise creates a custom exercise definition.
func NewCustomExercise(userID, name, muscleGroup string) *CustomExercise {
	now := time.Now().UTC()
	return &CustomExercise{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		MuscleGroup: muscleGroup,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
