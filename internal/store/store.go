// ABOUTME: Domain storage modules over the Querier contract.
// ABOUTME: Reads degrade to empty results; only critical writes propagate errors.
package store

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/storage"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// chunkSize bounds IN (...) parameter lists well under SQLite's 999 limit.
const chunkSize = 100

// Store bundles the domain storage modules. The queue is optional: without
// one, mutations simply are not recorded for sync.
type Store struct {
	db     storage.Querier
	queue  *outbox.Queue
	logger *log.Logger
}

// New creates the domain store.
func New(db storage.Querier, queue *outbox.Queue, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(os.Stderr, "[store] ", log.LstdFlags)
	}
	return &Store{db: db, queue: queue, logger: logger}
}

// DB exposes the underlying querier for collaborating services.
func (s *Store) DB() storage.Querier {
	return s.db
}

// Queue exposes the outbox, nil when sync is not configured.
func (s *Store) Queue() *outbox.Queue {
	return s.queue
}

// upsertRow writes a row map with INSERT OR REPLACE.
func (s *Store) upsertRow(ctx context.Context, table string, row map[string]any) error {
	query, args := storage.UpsertSQL(table, row)
	return s.db.Run(ctx, query, args...)
}

// enqueue records a mutation for sync. Queue failures are logged, never
// propagated: sync is best-effort from the caller's perspective.
func (s *Store) enqueue(ctx context.Context, table, recordID string, op outbox.Op, payload map[string]any) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, table, recordID, op, payload); err != nil {
		s.logger.Printf("queue %s %s/%s: %v", op, table, recordID, err)
	}
}

// chunk splits ids into slices of at most chunkSize.
func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// placeholders returns "?, ?, ..." for n parameters.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	out := make([]byte, 0, n*3-2)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',', ' ')
		}
		out = append(out, '?')
	}
	return string(out)
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nowRFC3339() string {
	return fmtTime(time.Now())
}

func nowTime() time.Time {
	return time.Now().UTC()
}
