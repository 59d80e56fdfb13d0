// ABOUTME: Daily step storage module, one record per user per date.
// ABOUTME: Step writes are swallowed on failure; device syncs retry on their own.
package store

import (
	"context"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// SaveSteps records the step count for a date, replacing any earlier entry for
// the same day. Failures are logged and swallowed: step data arrives in bulk
// from devices and the next sync delivers it again.
func (s *Store) SaveSteps(ctx context.Context, d *models.DailySteps) {
	d.UpdatedAt = nowTime()

	rows, err := s.db.Execute(ctx,
		"SELECT id, created_at FROM daily_steps WHERE user_id = ? AND date = ?",
		d.UserID, d.Date)
	if err != nil {
		s.logger.Printf("save steps: %v", err)
		return
	}
	if len(rows) > 0 {
		d.ID = rows[0].UUID("id")
		d.CreatedAt = rows[0].Time("created_at")
	}

	if err := s.upsertRow(ctx, storage.TableDailySteps, stepsRow(d)); err != nil {
		s.logger.Printf("save steps: %v", err)
		return
	}
	s.enqueue(ctx, storage.TableDailySteps, d.ID.String(), outbox.OpUpsert, stepsRow(d))
}

// GetSteps returns the step record for a date, or ErrNotFound.
func (s *Store) GetSteps(ctx context.Context, userID, date string) (*models.DailySteps, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_steps WHERE user_id = ? AND date = ?", userID, date)
	if err != nil {
		s.logger.Printf("get steps: %v", err)
		return nil, ErrNotFound
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanSteps(rows[0]), nil
}

// GetStepsInRange returns step records in [from, to], ascending by date.
func (s *Store) GetStepsInRange(ctx context.Context, userID, from, to string) []models.DailySteps {
	rows, err := s.db.Execute(ctx,
		"SELECT * FROM daily_steps WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to)
	if err != nil {
		s.logger.Printf("steps in range: %v", err)
		return nil
	}
	out := make([]models.DailySteps, 0, len(rows))
	for _, r := range rows {
		out = append(out, *scanSteps(r))
	}
	return out
}

func stepsRow(d *models.DailySteps) map[string]any {
	return map[string]any{
		"id":         d.ID.String(),
		"user_id":    d.UserID,
		"date":       d.Date,
		"steps":      d.Count,
		"source":     d.Source,
		"created_at": fmtTime(d.CreatedAt),
		"updated_at": fmtTime(d.UpdatedAt),
	}
}

func scanSteps(r storage.Row) *models.DailySteps {
	return &models.DailySteps{
		ID:        r.UUID("id"),
		UserID:    r.String("user_id"),
		Date:      r.String("date"),
		Count:     r.Int("steps"),
		Source:    r.String("source"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}
