// ABOUTME: Custom exercise storage module extending the built-in catalog.
// ABOUTME: Names are unique per user; lookups are case-insensitive via normalization.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// SaveCustomExercise creates or updates a user-defined exercise.
func (s *Store) SaveCustomExercise(ctx context.Context, e *models.CustomExercise) error {
	e.UpdatedAt = nowTime()
	if err := s.upsertRow(ctx, storage.TableCustomExercises, customExerciseRow(e)); err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}
	s.enqueue(ctx, storage.TableCustomExercises, e.ID.String(), outbox.OpUpsert, customExerciseRow(e))
	return nil
}

// ListCustomExercises returns the user's custom exercises alphabetically.
// Read failures degrade to empty.
func (s *Store) ListCustomExercises(ctx context.Context, userID string) []models.CustomExercise {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM custom_exercises WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		s.logger.Printf("list exercises: %v", err)
		return nil
	}
	out := make([]models.CustomExercise, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanCustomExercise(r))
	}
	return out
}

// DeleteCustomExercise removes a custom exercise definition. Logged workouts
// that used it keep their data; only the catalog entry goes away.
func (s *Store) DeleteCustomExercise(ctx context.Context, id uuid.UUID) error {
	if err := s.db.Run(ctx, "DELETE FROM custom_exercises WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	s.enqueue(ctx, storage.TableCustomExercises, id.String(), outbox.OpDelete, nil)
	return nil
}

func customExerciseRow(e *models.CustomExercise) map[string]any {
	return map[string]any{
		"id":           e.ID.String(),
		"user_id":      e.UserID,
		"name":         e.Name,
		"muscle_group": e.MuscleGroup,
		"equipment":    e.Equipment,
		"created_at":   fmtTime(e.CreatedAt),
		"updated_at":   fmtTime(e.UpdatedAt),
	}
}

func scanCustomExercise(r storage.Row) *models.CustomExercise {
	return &models.CustomExercise{
		ID:          r.UUID("id"),
		UserID:      r.String("user_id"),
		Name:        r.String("name"),
		MuscleGroup: r.String("muscle_group"),
		Equipment:   r.String("equipment"),
		CreatedAt:   r.Time("created_at"),
		UpdatedAt:   r.Time("updated_at"),
	}
}
