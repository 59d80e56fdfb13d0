// ABOUTME: User storage module: profile CRUD and current-user bookkeeping.
// ABOUTME: Profile writes propagate errors; the caller must surface them.
package store

import (
	"context"
	"fmt"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

const currentUserKey = "current_user"

// SaveUser creates or updates a user profile. Errors propagate: the profile
// is data the user is actively editing.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = nowTime()
	row := userRow(u)
	if err := s.upsertRow(ctx, storage.TableUsers, row); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.enqueue(ctx, storage.TableUsers, u.ID, outbox.OpUpsert, row)
	return nil
}

// GetUser returns a user by id, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	rows, err := s.db.Execute(ctx, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return scanUser(rows[0]), nil
}

// CurrentUser returns the active user, or ErrNotFound before first run.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	id, ok, err := storage.GetMeta(ctx, s.db, currentUserKey)
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// SetCurrentUser records which user owns this device's data.
func (s *Store) SetCurrentUser(ctx context.Context, id string) error {
	return storage.SetMeta(ctx, s.db, currentUserKey, id)
}

// EnsureUser returns the current user, creating an anonymous local user on
// first run.
func (s *Store) EnsureUser(ctx context.Context, name string) (*models.User, error) {
	u, err := s.CurrentUser(ctx)
	if err == nil {
		return u, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	u = models.NewLocalUser(name)
	if err := s.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	if err := s.SetCurrentUser(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func userRow(u *models.User) map[string]any {
	return map[string]any{
		"id":             u.ID,
		"name":           u.Name,
		"units":          u.Units,
		"calorie_target": u.CalorieTarget,
		"step_target":    u.StepTarget,
		"created_at":     fmtTime(u.CreatedAt),
		"updated_at":     fmtTime(u.UpdatedAt),
	}
}

func scanUser(r storage.Row) *models.User {
	return &models.User{
		ID:            r.String("id"),
		Name:          r.String("name"),
		Units:         r.String("units"),
		CalorieTarget: r.Int("calorie_target"),
		StepTarget:    r.Int("step_target"),
		CreatedAt:     r.Time("created_at"),
		UpdatedAt:     r.Time("updated_at"),
	}
}
