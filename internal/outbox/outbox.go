// ABOUTME: Append-only sync queue recording every local mutation for replay.
// ABOUTME: Dedupes unprocessed entries per (table, record); processed entries are kept for a retention window.
package outbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/fittrack/internal/storage"
)

// Op is a queued mutation kind.
type Op string

const (
	OpUpsert Op = "UPSERT"
	OpDelete Op = "DELETE"
)

// DefaultRetention is how long processed entries are kept before garbage
// collection, preserving a forensic trail of recent sync activity.
const DefaultRetention = 7 * 24 * time.Hour

// Item is one queue entry. Payload stays obfuscated until DecodePayload.
type Item struct {
	ID          string
	Table       string
	RecordID    string
	Op          Op
	EncPayload  string
	CreatedAt   time.Time
	ProcessedAt *time.Time
	LastError   *string
}

// Queue is the outbox over the local store.
type Queue struct {
	db        storage.Querier
	obf       *Obfuscator
	logger    *log.Logger
	retention time.Duration
	now       func() time.Time

	// drainHook fires after a successful enqueue when the device is online;
	// the sync service installs it.
	drainHook func()
}

// New creates a Queue using the default obfuscator and retention window.
func New(db storage.Querier, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(os.Stderr, "[outbox] ", log.LstdFlags)
	}
	return &Queue{
		db:        db,
		obf:       DefaultObfuscator(),
		logger:    logger,
		retention: DefaultRetention,
		now:       time.Now,
	}
}

// SetDrainHook installs the callback fired after each enqueue.
func (q *Queue) SetDrainHook(fn func()) {
	q.drainHook = fn
}

// Enqueue records a mutation for eventual replay. Any unprocessed entry for
// the same (table, recordID) is dropped first: only the latest pending
// mutation per record matters, and replaying stale intermediate states can
// reintroduce already-superseded conflicts.
//
// The payload is guaranteed an updated_at timestamp (defaulting to now) used
// later for conflict detection.
func (q *Queue) Enqueue(ctx context.Context, table, recordID string, op Op, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{"id": recordID}
	}
	if _, ok := payload["updated_at"]; !ok {
		payload["updated_at"] = q.now().UTC().Format(time.RFC3339)
	}

	plain, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	enc := base64.StdEncoding.EncodeToString(q.obf.Apply(plain))

	id := ulid.Make().String()
	createdAt := q.now().UTC().Format(time.RFC3339Nano)

	err = q.db.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := q.db.Run(ctx,
			"DELETE FROM sync_queue WHERE table_name = ? AND record_id = ? AND processed_at IS NULL",
			table, recordID); err != nil {
			return fmt.Errorf("dedupe queue: %w", err)
		}
		return q.db.Run(ctx,
			"INSERT INTO sync_queue (id, table_name, record_id, operation, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, table, recordID, string(op), enc, createdAt)
	})
	if err != nil {
		return err
	}

	if q.drainHook != nil {
		q.drainHook()
	}
	return nil
}

// Pending returns unprocessed entries in creation order. Ordering is by id:
// ids are monotonic ULIDs, so lexical order is enqueue order even within the
// same timestamp, where RFC3339Nano strings can compare out of order.
func (q *Queue) Pending(ctx context.Context) ([]Item, error) {
	rows, err := q.db.Execute(ctx,
		"SELECT * FROM sync_queue WHERE processed_at IS NULL ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, itemFromRow(r))
	}
	return items, nil
}

// PendingCount returns the number of unprocessed entries.
func (q *Queue) PendingCount(ctx context.Context) (int, error) {
	rows, err := q.db.Execute(ctx,
		"SELECT COUNT(*) AS n FROM sync_queue WHERE processed_at IS NULL")
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int("n"), nil
}

// DecodePayload de-obfuscates and parses an entry's payload.
func (q *Queue) DecodePayload(item Item) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(item.EncPayload)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(q.obf.Apply(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return payload, nil
}

// MarkProcessed stamps the entry as replayed. Entries are never deleted on
// success; Collect removes them after the retention window.
func (q *Queue) MarkProcessed(ctx context.Context, id string) error {
	return q.db.Run(ctx,
		"UPDATE sync_queue SET processed_at = ?, last_error = ? WHERE id = ?",
		q.now().UTC().Format(time.RFC3339Nano), nil, id)
}

// RecordError stores the failure message on an entry, leaving it unprocessed
// for the next drain.
func (q *Queue) RecordError(ctx context.Context, id, msg string) error {
	return q.db.Run(ctx, "UPDATE sync_queue SET last_error = ? WHERE id = ?", msg, id)
}

// Collect removes processed entries older than the retention window and
// returns how many were dropped.
func (q *Queue) Collect(ctx context.Context) (int, error) {
	cutoff := q.now().UTC().Add(-q.retention).Format(time.RFC3339Nano)
	rows, err := q.db.Execute(ctx,
		"SELECT COUNT(*) AS n FROM sync_queue WHERE processed_at IS NOT NULL AND processed_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	n := 0
	if len(rows) > 0 {
		n = rows[0].Int("n")
	}
	if n == 0 {
		return 0, nil
	}
	if err := q.db.Run(ctx,
		"DELETE FROM sync_queue WHERE processed_at IS NOT NULL AND processed_at < ?", cutoff); err != nil {
		return 0, err
	}
	q.logger.Printf("collected %d processed queue entries", n)
	return n, nil
}

func itemFromRow(r storage.Row) Item {
	it := Item{
		ID:         r.String("id"),
		Table:      r.String("table_name"),
		RecordID:   r.String("record_id"),
		Op:         Op(r.String("operation")),
		EncPayload: r.String("payload"),
		LastError:  r.NullString("last_error"),
	}
	it.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.String("created_at"))
	if p := r.String("processed_at"); p != "" {
		if t, err := time.Parse(time.RFC3339Nano, p); err == nil {
			it.ProcessedAt = &t
		}
	}
	return it
}
