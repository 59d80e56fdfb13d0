// ABOUTME: Ownership migration: rewrites local-sentinel user ids to a cloud account id.
// ABOUTME: Runs as one transaction, then queues every promoted row for upload.
package migrate

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// Service promotes data created before sign-in to a cloud account.
type Service struct {
	db     storage.Querier
	queue  *outbox.Queue
	logger *log.Logger
}

// New creates the migration service. The queue may be nil in tests; promoted
// rows are then simply not recorded for sync.
func New(db storage.Querier, queue *outbox.Queue, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stderr, "[migrate] ", log.LstdFlags)
	}
	return &Service{db: db, queue: queue, logger: logger}
}

// HasLocalData reports whether any local-sentinel user exists. False means
// promotion already ran (or there was never anything to promote), so calling
// PromoteLocalUser again is a no-op the caller can skip.
func (s *Service) HasLocalData(ctx context.Context) (bool, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT COUNT(*) AS n FROM users WHERE id LIKE ?", models.LocalUserPrefix+"%")
	if err != nil {
		return false, fmt.Errorf("check local users: %w", err)
	}
	return len(rows) > 0 && rows[0].Int64("n") > 0, nil
}

// PromoteLocalUser rewrites every row owned by a local-sentinel user to the
// given cloud user id, atomically, then enqueues the promoted rows for upload.
// Idempotent: with no local rows left it does nothing.
func (s *Service) PromoteLocalUser(ctx context.Context, cloudUserID string) error {
	if models.IsLocalUserID(cloudUserID) {
		return fmt.Errorf("refusing to promote to local id %q", cloudUserID)
	}

	hasLocal, err := s.HasLocalData(ctx)
	if err != nil {
		return err
	}
	if !hasLocal {
		return nil
	}

	pattern := models.LocalUserPrefix + "%"
	err = s.db.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, table := range storage.UserScopedTables {
			if err := s.db.Run(ctx,
				fmt.Sprintf("UPDATE %s SET user_id = ? WHERE user_id LIKE ?", table),
				cloudUserID, pattern); err != nil {
				return fmt.Errorf("rewrite %s: %w", table, err)
			}
		}
		// The local user row becomes the cloud user row; its id is the key.
		if err := s.db.Run(ctx,
			"UPDATE users SET id = ? WHERE id LIKE ?", cloudUserID, pattern); err != nil {
			return fmt.Errorf("rewrite users: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("promote local user: %w", err)
	}

	if _, ok, err := storage.GetMeta(ctx, s.db, "current_user"); err == nil && ok {
		if err := storage.SetMeta(ctx, s.db, "current_user", cloudUserID); err != nil {
			s.logger.Printf("update current user: %v", err)
		}
	}

	s.enqueueAll(ctx, cloudUserID)
	s.logger.Printf("promoted local data to user %s", cloudUserID)
	return nil
}

// enqueueAll records every row the promoted user owns for upload, parents
// before children. Queue failures are logged; a later full sync re-pushes.
func (s *Service) enqueueAll(ctx context.Context, userID string) {
	if s.queue == nil {
		return
	}
	for _, table := range storage.SyncTables {
		var rows []storage.Row
		var err error
		if table == storage.TableUsers {
			rows, err = s.db.Execute(ctx, "SELECT * FROM users WHERE id = ?", userID)
		} else {
			rows, err = s.db.Execute(ctx,
				fmt.Sprintf("SELECT * FROM %s WHERE user_id = ?", table), userID)
		}
		if err != nil {
			s.logger.Printf("read %s for upload: %v", table, err)
			continue
		}
		pk := storage.PrimaryKey(table)
		for _, row := range rows {
			payload := map[string]any(row)
			if err := s.queue.Enqueue(ctx, table, row.String(pk), outbox.OpUpsert, payload); err != nil {
				s.logger.Printf("queue %s/%s: %v", table, row.String(pk), err)
			}
		}
	}
}
