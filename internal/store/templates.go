// ABOUTME: Workout template storage module: reusable blueprints with exercise targets.
// ABOUTME: Template saves replace exercise children wholesale, like workout saves.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// SaveTemplate writes a template and its exercise targets atomically.
func (s *Store) SaveTemplate(ctx context.Context, t *models.WorkoutTemplate) error {
	t.UpdatedAt = nowTime()

	err := s.db.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.upsertRow(ctx, storage.TableWorkoutTemplates, templateRow(t)); err != nil {
			return err
		}
		if err := s.db.Run(ctx,
			"DELETE FROM exercise_templates WHERE template_id = ?", t.ID.String()); err != nil {
			return err
		}
		for i := range t.Exercises {
			if err := s.upsertRow(ctx, storage.TableExerciseTemplates, exerciseTemplateRow(&t.Exercises[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}

	s.enqueue(ctx, storage.TableWorkoutTemplates, t.ID.String(), outbox.OpUpsert, templateRow(t))
	for i := range t.Exercises {
		e := &t.Exercises[i]
		s.enqueue(ctx, storage.TableExerciseTemplates, e.ID.String(), outbox.OpUpsert, exerciseTemplateRow(e))
	}
	return nil
}

// GetTemplate loads a template with its exercises, or ErrNotFound.
func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	rows, err := s.db.Execute(ctx, "SELECT * FROM workout_templates WHERE id = ?", id.String())
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	t := scanTemplate(rows[0])
	if err := s.loadTemplateExercises(ctx, t); err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// GetTemplateByName finds a template by exact name, or ErrNotFound.
func (s *Store) GetTemplateByName(ctx context.Context, userID, name string) (*models.WorkoutTemplate, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM workout_templates WHERE user_id = ? AND name = ?", userID, name)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	t := scanTemplate(rows[0])
	if err := s.loadTemplateExercises(ctx, t); err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// ListTemplates returns the user's templates alphabetically, with exercises.
// Read failures degrade to empty.
func (s *Store) ListTemplates(ctx context.Context, userID string) []models.WorkoutTemplate {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM workout_templates WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		s.logger.Printf("list templates: %v", err)
		return nil
	}
	out := make([]models.WorkoutTemplate, 0, len(rows))
	for _, r := range rows {
		t := scanTemplate(r)
		if err := s.loadTemplateExercises(ctx, t); err != nil {
			s.logger.Printf("load template exercises: %v", err)
			return nil
		}
		out = append(out, *t)
	}
	return out
}

// DeleteTemplate removes a template and its exercise targets.
func (s *Store) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	t, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.Run(ctx, "DELETE FROM workout_templates WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	for i := range t.Exercises {
		s.enqueue(ctx, storage.TableExerciseTemplates, t.Exercises[i].ID.String(), outbox.OpDelete, nil)
	}
	s.enqueue(ctx, storage.TableWorkoutTemplates, id.String(), outbox.OpDelete, nil)
	return nil
}

func (s *Store) loadTemplateExercises(ctx context.Context, t *models.WorkoutTemplate) error {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM exercise_templates WHERE template_id = ? ORDER BY order_index", t.ID.String())
	if err != nil {
		return err
	}
	for _, r := range rows {
		t.Exercises = append(t.Exercises, *scanExerciseTemplate(r))
	}
	return nil
}

func templateRow(t *models.WorkoutTemplate) map[string]any {
	return map[string]any{
		"id":         t.ID.String(),
		"user_id":    t.UserID,
		"name":       t.Name,
		"notes":      nullableString(t.Notes),
		"created_at": fmtTime(t.CreatedAt),
		"updated_at": fmtTime(t.UpdatedAt),
	}
}

func exerciseTemplateRow(e *models.ExerciseTemplate) map[string]any {
	return map[string]any{
		"id":            e.ID.String(),
		"template_id":   e.TemplateID.String(),
		"user_id":       e.UserID,
		"name":          e.Name,
		"order_index":   e.OrderIndex,
		"target_sets":   e.TargetSets,
		"target_reps":   e.TargetReps,
		"target_weight": e.TargetWeight,
	}
}

func scanTemplate(r storage.Row) *models.WorkoutTemplate {
	return &models.WorkoutTemplate{
		ID:        r.UUID("id"),
		UserID:    r.String("user_id"),
		Name:      r.String("name"),
		Notes:     r.NullString("notes"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}

func scanExerciseTemplate(r storage.Row) *models.ExerciseTemplate {
	return &models.ExerciseTemplate{
		ID:           r.UUID("id"),
		TemplateID:   r.UUID("template_id"),
		UserID:       r.String("user_id"),
		Name:         r.String("name"),
		OrderIndex:   r.Int("order_index"),
		TargetSets:   r.Int("target_sets"),
		TargetReps:   r.Int("target_reps"),
		TargetWeight: r.Float("target_weight"),
	}
}
