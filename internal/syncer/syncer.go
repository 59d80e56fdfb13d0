// ABOUTME: Sync service: drains the outbox to the remote backend and pulls remote changes.
// ABOUTME: One pass at a time; conflicts resolve per policy and notify observers.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/remote"
	"github.com/harperreed/fittrack/internal/storage"
)

// Policy selects how an UPSERT conflict is resolved.
type Policy string

const (
	// PolicyCloudWins discards the local write when the remote copy is newer.
	PolicyCloudWins Policy = "cloud_wins"
	// PolicyLocalWins pushes the local write regardless.
	PolicyLocalWins Policy = "local_wins"
	// PolicyManual leaves the entry pending for an external decision.
	PolicyManual Policy = "manual"
)

// State of the sync service.
type State string

const (
	StateOffline       State = "offline"
	StateOnlineIdle    State = "online-idle"
	StateOnlineSyncing State = "online-syncing"
)

// ErrManualConflict marks an entry deferred under the manual policy.
var ErrManualConflict = errors.New("sync conflict requires manual resolution")

// DefaultCooldown debounces foreground-triggered full syncs.
const DefaultCooldown = 5 * time.Minute

// Conflict is a detected concurrent edit: the remote copy changed after the
// local mutation was recorded.
type Conflict struct {
	Table           string
	RecordID        string
	LocalUpdatedAt  time.Time
	RemoteUpdatedAt time.Time
}

// ConflictObserver is notified of every detected conflict, regardless of how
// the policy resolves it.
type ConflictObserver func(Conflict)

// Service coordinates queue draining and remote pulls. One instance per
// process; an internal flag prevents overlapping passes.
type Service struct {
	db      storage.Querier
	queue   *outbox.Queue
	remote  remote.Client
	monitor *Monitor
	policy  Policy
	logger  *log.Logger

	syncing  atomic.Bool
	cooldown time.Duration
	now      func() time.Time

	mu        sync.Mutex
	userID    string
	observers []ConflictObserver
	lastFull  time.Time
}

// New creates the sync service and wires it to the monitor and the queue:
// a rising connectivity edge triggers a drain, and every enqueue while online
// triggers one as well.
func New(db storage.Querier, queue *outbox.Queue, rc remote.Client, monitor *Monitor, policy Policy, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	if policy == "" {
		policy = PolicyCloudWins
	}
	s := &Service{
		db:       db,
		queue:    queue,
		remote:   rc,
		monitor:  monitor,
		policy:   policy,
		logger:   logger,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}

	monitor.OnChange(func(online bool) {
		if online {
			if err := s.Drain(context.Background()); err != nil {
				s.logger.Printf("drain after reconnect: %v", err)
			}
		}
	})
	queue.SetDrainHook(func() {
		if !monitor.Online() {
			return
		}
		if err := s.Drain(context.Background()); err != nil {
			s.logger.Printf("drain after enqueue: %v", err)
		}
	})

	return s
}

// SetUser scopes pulls to the given user.
func (s *Service) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// AddConflictObserver registers a conflict notification callback.
func (s *Service) AddConflictObserver(fn ConflictObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// State reports the current position in the sync state machine.
func (s *Service) State() State {
	if !s.monitor.Online() {
		return StateOffline
	}
	if s.syncing.Load() {
		return StateOnlineSyncing
	}
	return StateOnlineIdle
}

// Drain replays pending queue entries against the remote backend. A drain
// requested while one is in flight is skipped; the caller re-triggers after
// every enqueue, so nothing is lost.
func (s *Service) Drain(ctx context.Context) error {
	if !s.monitor.Online() {
		return nil
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.syncing.Store(false)
	return s.drain(ctx)
}

// FullSync pulls remote changes, then drains the queue.
func (s *Service) FullSync(ctx context.Context) error {
	if !s.monitor.Online() {
		return nil
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.syncing.Store(false)

	if err := s.pullAll(ctx); err != nil {
		return err
	}
	return s.drain(ctx)
}

// HandleForeground runs a debounced full sync: rapid foreground/background
// cycling within the cooldown window does not produce redundant traffic.
func (s *Service) HandleForeground(ctx context.Context) error {
	s.mu.Lock()
	if s.now().Sub(s.lastFull) < s.cooldown {
		s.mu.Unlock()
		return nil
	}
	s.lastFull = s.now()
	s.mu.Unlock()

	return s.FullSync(ctx)
}

// drain replays entries in creation order; a failing entry records its error
// and the loop continues (no head-of-line blocking).
func (s *Service) drain(ctx context.Context) error {
	items, err := s.queue.Pending(ctx)
	if err != nil {
		return fmt.Errorf("read pending queue: %w", err)
	}

	var replayed, failed int
	for _, item := range items {
		if err := s.replay(ctx, item); err != nil {
			failed++
			if recErr := s.queue.RecordError(ctx, item.ID, err.Error()); recErr != nil {
				s.logger.Printf("record error on %s: %v", item.ID, recErr)
			}
			continue
		}
		if err := s.queue.MarkProcessed(ctx, item.ID); err != nil {
			s.logger.Printf("mark processed %s: %v", item.ID, err)
			continue
		}
		replayed++
	}

	if replayed > 0 || failed > 0 {
		s.logger.Printf("drained queue: %d replayed, %d failed", replayed, failed)
	}

	if _, err := s.queue.Collect(ctx); err != nil {
		s.logger.Printf("queue gc: %v", err)
	}
	return nil
}

// replay pushes one queue entry. A payload that cannot be decoded is a hard
// per-entry failure and stays pending.
func (s *Service) replay(ctx context.Context, item outbox.Item) error {
	payload, err := s.queue.DecodePayload(item)
	if err != nil {
		return fmt.Errorf("corrupted payload: %w", err)
	}

	switch item.Op {
	case outbox.OpDelete:
		err := s.remote.Delete(ctx, item.Table, item.RecordID)
		if err != nil && !errors.Is(err, remote.ErrNotFound) {
			return err
		}
		return nil

	case outbox.OpUpsert:
		localUpdated, _ := time.Parse(time.RFC3339, stringField(payload, "updated_at"))

		remoteRow, err := s.remote.Fetch(ctx, item.Table, item.RecordID)
		switch {
		case errors.Is(err, remote.ErrNotFound):
			// No remote copy, no conflict possible.
		case err != nil:
			return err
		default:
			remoteUpdated, _ := time.Parse(time.RFC3339, stringField(remoteRow, "updated_at"))
			if remoteUpdated.After(localUpdated) {
				s.notifyConflict(Conflict{
					Table:           item.Table,
					RecordID:        item.RecordID,
					LocalUpdatedAt:  localUpdated,
					RemoteUpdatedAt: remoteUpdated,
				})
				switch s.policy {
				case PolicyCloudWins:
					return nil // discard the local write
				case PolicyManual:
					return ErrManualConflict
				case PolicyLocalWins:
					// push anyway
				}
			}
		}

		if _, err := s.remote.Upsert(ctx, item.Table, payload); err != nil {
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown operation %q", item.Op)
	}
}

func (s *Service) notifyConflict(c Conflict) {
	s.mu.Lock()
	observers := make([]ConflictObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	s.logger.Printf("conflict on %s/%s: local %s, remote %s",
		c.Table, c.RecordID, c.LocalUpdatedAt.Format(time.RFC3339), c.RemoteUpdatedAt.Format(time.RFC3339))
	for _, fn := range observers {
		fn(c)
	}
}

// pullAll pulls every syncable table. Per-table failures are logged and the
// loop continues; the watermark for a failed table is not advanced.
func (s *Service) pullAll(ctx context.Context) error {
	var firstErr error
	for _, table := range storage.SyncTables {
		if err := s.pullTable(ctx, table); err != nil {
			s.logger.Printf("pull %s: %v", table, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// pullTable fetches rows changed since the table's watermark and applies them
// locally without re-queueing. The watermark advances to now whether or not
// rows were returned: pull is time-windowed, not dependent on pending state.
func (s *Service) pullTable(ctx context.Context, table string) error {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	watermark, err := s.watermark(ctx, table)
	if err != nil {
		return err
	}
	pulledAt := s.now().UTC()

	rows, err := s.remote.Select(ctx, table, remote.Filter{UserID: userID, UpdatedAfter: watermark})
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := s.applyRemoteRow(ctx, table, row); err != nil {
			return fmt.Errorf("apply row: %w", err)
		}
	}

	return s.setWatermark(ctx, table, pulledAt)
}

func (s *Service) watermark(ctx context.Context, table string) (time.Time, error) {
	rows, err := s.db.Execute(ctx,
		"SELECT last_pulled_at FROM sync_metadata WHERE table_name = ?", table)
	if err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 {
		return time.Time{}, nil
	}
	t, _ := time.Parse(time.RFC3339, rows[0].String("last_pulled_at"))
	return t, nil
}

func (s *Service) setWatermark(ctx context.Context, table string, t time.Time) error {
	return s.db.Run(ctx,
		"INSERT OR REPLACE INTO sync_metadata (table_name, last_pulled_at) VALUES (?, ?)",
		table, t.UTC().Format(time.RFC3339))
}

// applyRemoteRow upserts a pulled row into the local store. Columns come from
// the row itself; absent columns keep their current values. The merge form is
// required here: INSERT OR REPLACE deletes the existing row first and its
// ON DELETE CASCADE would take the local children of a pulled parent with it.
func (s *Service) applyRemoteRow(ctx context.Context, table string, row map[string]any) error {
	if len(row) == 0 {
		return nil
	}
	query, args := storage.UpsertMergeSQL(table, row)
	return s.db.Run(ctx, query, args...)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
