// ABOUTME: Food preset storage module: reusable foods ranked by recency of use.
// ABOUTME: Preset creation propagates errors; listings degrade to empty.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// CreatePreset saves a food preset. Errors propagate: the user just typed
// these macros in and silently losing them would be worse than an error.
func (s *Store) CreatePreset(ctx context.Context, p *models.FoodPreset) error {
	p.UpdatedAt = nowTime()
	if err := s.upsertRow(ctx, storage.TableFoodPresets, presetRow(p)); err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	s.enqueue(ctx, storage.TableFoodPresets, p.ID.String(), outbox.OpUpsert, presetRow(p))
	return nil
}

// GetPreset returns a preset by id, or ErrNotFound.
func (s *Store) GetPreset(ctx context.Context, id uuid.UUID) (*models.FoodPreset, error) {
	rows, err := s.db.Execute(ctx, "SELECT * FROM food_presets WHERE id = ?", id.String())
	if err != nil {
		return nil, fmt.Errorf("get preset: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanPreset(rows[0]), nil
}

// ListPresets returns the user's presets, most recently used first; never-used
// presets follow, alphabetically.
func (s *Store) ListPresets(ctx context.Context, userID string, limit int) []models.FoodPreset {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM food_presets WHERE user_id = ? ORDER BY last_used_at DESC, name LIMIT ?",
		userID, limit)
	if err != nil {
		s.logger.Printf("list presets: %v", err)
		return nil
	}
	out := make([]models.FoodPreset, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanPreset(r))
	}
	return out
}

// SearchPresets returns presets whose name starts with the query prefix.
func (s *Store) SearchPresets(ctx context.Context, userID, prefix string) []models.FoodPreset {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM food_presets WHERE user_id = ? AND name LIKE ? ORDER BY name",
		userID, prefix+"%")
	if err != nil {
		s.logger.Printf("search presets: %v", err)
		return nil
	}
	out := make([]models.FoodPreset, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanPreset(r))
	}
	return out
}

// DeletePreset removes a preset. Meals that referenced it keep their copied
// macros; only the pointer dangles, and readers treat that as preset-less.
func (s *Store) DeletePreset(ctx context.Context, id uuid.UUID) error {
	if err := s.db.Run(ctx, "DELETE FROM food_presets WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	s.enqueue(ctx, storage.TableFoodPresets, id.String(), outbox.OpDelete, nil)
	return nil
}

func presetRow(p *models.FoodPreset) map[string]any {
	row := map[string]any{
		"id":           p.ID.String(),
		"user_id":      p.UserID,
		"name":         p.Name,
		"calories":     p.Calories,
		"protein":      p.Protein,
		"carbs":        p.Carbs,
		"fat":          p.Fat,
		"serving_unit": p.ServingUnit,
		"created_at":   fmtTime(p.CreatedAt),
		"updated_at":   fmtTime(p.UpdatedAt),
	}
	if p.LastUsedAt != nil {
		row["last_used_at"] = fmtTime(*p.LastUsedAt)
	} else {
		row["last_used_at"] = nil
	}
	return row
}

func scanPreset(r storage.Row) *models.FoodPreset {
	return &models.FoodPreset{
		ID:          r.UUID("id"),
		UserID:      r.String("user_id"),
		Name:        r.String("name"),
		Calories:    r.Float("calories"),
		Protein:     r.Float("protein"),
		Carbs:       r.Float("carbs"),
		Fat:         r.Float("fat"),
		ServingUnit: r.String("serving_unit"),
		LastUsedAt:  r.NullTime("last_used_at"),
		CreatedAt:   r.Time("created_at"),
		UpdatedAt:   r.Time("updated_at"),
	}
}
