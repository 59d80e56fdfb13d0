// ABOUTME: Nutrition storage module: one record per user per date, meals replaced on save.
// ABOUTME: Saving a meal touches its preset's last_used_at for recency ranking.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// SaveNutrition writes the day's nutrition record and its meals atomically.
// If a record for (user, date) already exists its id is preserved so remote
// copies keyed by id stay stable. Errors propagate: meals are user input.
func (s *Store) SaveNutrition(ctx context.Context, n *models.DailyNutrition) error {
	n.UpdatedAt = nowTime()

	err := s.db.RunInTransaction(ctx, func(ctx context.Context) error {
		rows, err := s.db.Execute(ctx,
			"SELECT id, created_at FROM daily_nutrition WHERE user_id = ? AND date = ?",
			n.UserID, n.Date)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			existing := rows[0].UUID("id")
			if existing != n.ID {
				n.ID = existing
				n.CreatedAt = rows[0].Time("created_at")
				for i := range n.Meals {
					n.Meals[i].NutritionID = existing
				}
			}
		}

		if err := s.upsertRow(ctx, storage.TableDailyNutrition, nutritionRow(n)); err != nil {
			return err
		}
		if err := s.db.Run(ctx,
			"DELETE FROM meals WHERE nutrition_id = ?", n.ID.String()); err != nil {
			return err
		}
		for i := range n.Meals {
			if err := s.upsertRow(ctx, storage.TableMeals, mealRow(&n.Meals[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save nutrition: %w", err)
	}

	s.enqueue(ctx, storage.TableDailyNutrition, n.ID.String(), outbox.OpUpsert, nutritionRow(n))
	for i := range n.Meals {
		m := &n.Meals[i]
		s.enqueue(ctx, storage.TableMeals, m.ID.String(), outbox.OpUpsert, mealRow(m))
		if m.PresetID != nil {
			s.touchPreset(ctx, *m.PresetID)
		}
	}
	return nil
}

// GetNutrition loads the nutrition record for a date with its meals, or
// ErrNotFound when nothing was logged that day.
func (s *Store) GetNutrition(ctx context.Context, userID, date string) (*models.DailyNutrition, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_nutrition WHERE user_id = ? AND date = ?", userID, date)
	if err != nil {
		return nil, fmt.Errorf("get nutrition: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	n := scanNutrition(rows[0])
	mealRows, err := s.db.Execute(ctx,
		"SELECT * FROM meals WHERE nutrition_id = ? ORDER BY order_index", n.ID.String())
	if err != nil {
		return nil, fmt.Errorf("get meals: %w", err)
	}
	for _, r := range mealRows {
		n.Meals = append(n.Meals, *scanMeal(r))
	}
	return n, nil
}

// GetNutritionInRange returns nutrition records (with meals) in [from, to],
// ascending by date. Read failures degrade to empty.
func (s *Store) GetNutritionInRange(ctx context.Context, userID, from, to string) []models.DailyNutrition {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_nutrition WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to)
	if err != nil {
		s.logger.Printf("nutrition in range: %v", err)
		return nil
	}

	out := make([]models.DailyNutrition, 0, len(rows))
	byID := make(map[uuid.UUID]*models.DailyNutrition, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		n := scanNutrition(r)
		out = append(out, *n)
		byID[n.ID] = &out[len(out)-1]
		ids = append(ids, n.ID.String())
	}

	for _, idChunk := range chunk(ids, chunkSize) {
		query := fmt.Sprintf(
			"SELECT * FROM meals WHERE nutrition_id IN (%s) ORDER BY order_index",
			placeholders(len(idChunk)))
		mealRows, err := s.db.Execute(ctx, query, toAnySlice(idChunk)...)
		if err != nil {
			s.logger.Printf("meals in range: %v", err)
			return nil
		}
		for _, r := range mealRows {
			m := scanMeal(r)
			if n, ok := byID[m.NutritionID]; ok {
				n.Meals = append(n.Meals, *m)
			}
		}
	}
	return out
}

// DeleteMeal removes one meal from a day's record.
func (s *Store) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	if err := s.db.Run(ctx, "DELETE FROM meals WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	s.enqueue(ctx, storage.TableMeals, id.String(), outbox.OpDelete, nil)
	return nil
}

// touchPreset bumps a preset's last_used_at so recent presets rank first.
// Best-effort: a failed touch only degrades ranking.
func (s *Store) touchPreset(ctx context.Context, presetID uuid.UUID) {
	now := nowRFC3339()
	if err := s.db.Run(ctx,
		"UPDATE food_presets SET last_used_at = ?, updated_at = ? WHERE id = ?",
		now, now, presetID.String()); err != nil {
		s.logger.Printf("touch preset %s: %v", presetID, err)
		return
	}
	if p, err := s.GetPreset(ctx, presetID); err == nil {
		s.enqueue(ctx, storage.TableFoodPresets, p.ID.String(), outbox.OpUpsert, presetRow(p))
	}
}

func nutritionRow(n *models.DailyNutrition) map[string]any {
	return map[string]any{
		"id":         n.ID.String(),
		"user_id":    n.UserID,
		"date":       n.Date,
		"created_at": fmtTime(n.CreatedAt),
		"updated_at": fmtTime(n.UpdatedAt),
	}
}

func mealRow(m *models.Meal) map[string]any {
	row := map[string]any{
		"id":                 m.ID.String(),
		"nutrition_id":       m.NutritionID.String(),
		"user_id":            m.UserID,
		"name":               m.Name,
		"calories":           m.Calories,
		"protein":            m.Protein,
		"carbs":              m.Carbs,
		"fat":                m.Fat,
		"serving_multiplier": m.ServingMultiplier,
		"order_index":        m.OrderIndex,
		"created_at":         fmtTime(m.CreatedAt),
	}
	if m.PresetID != nil {
		row["preset_id"] = m.PresetID.String()
	} else {
		row["preset_id"] = nil
	}
	return row
}

func scanNutrition(r storage.Row) *models.DailyNutrition {
	return &models.DailyNutrition{
		ID:        r.UUID("id"),
		UserID:    r.String("user_id"),
		Date:      r.String("date"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}

func scanMeal(r storage.Row) *models.Meal {
	return &models.Meal{
		ID:                r.UUID("id"),
		NutritionID:       r.UUID("nutrition_id"),
		UserID:            r.String("user_id"),
		Name:              r.String("name"),
		Calories:          r.Float("calories"),
		Protein:           r.Float("protein"),
		Carbs:             r.Float("carbs"),
		Fat:               r.Float("fat"),
		PresetID:          r.NullUUID("preset_id"),
		ServingMultiplier: r.Float("serving_multiplier"),
		OrderIndex:        r.Int("order_index"),
		CreatedAt:         r.Time("created_at"),
	}
}
