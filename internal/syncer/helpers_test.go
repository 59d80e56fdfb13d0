// ABOUTME: Shared fixtures for sync service tests.
// ABOUTME: Provides an in-memory fake of the remote backend contract.
package syncer

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/remote"
	"github.com/harperreed/fittrack/internal/storage"
)

// fakeRemote is an in-memory remote.Client recording calls for assertions.
type fakeRemote struct {
	mu        sync.Mutex
	rows      map[string]map[string]map[string]any // table -> id -> row
	healthErr error
	upsertErr error

	selects int
	upserts []string // "table/id"
	deletes []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]map[string]map[string]any)}
}

func (f *fakeRemote) put(table string, row map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[table] == nil {
		f.rows[table] = make(map[string]map[string]any)
	}
	f.rows[table][row["id"].(string)] = row
}

func (f *fakeRemote) get(table, id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[table][id]
}

func (f *fakeRemote) Select(ctx context.Context, table string, filter remote.Filter) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++

	var out []map[string]any
	for _, row := range f.rows[table] {
		if filter.UserID != "" {
			if uid, ok := row["user_id"].(string); ok && uid != filter.UserID {
				continue
			}
		}
		if !filter.UpdatedAfter.IsZero() {
			updated, _ := time.Parse(time.RFC3339, row["updated_at"].(string))
			if !updated.After(filter.UpdatedAfter) {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeRemote) Fetch(ctx context.Context, table, id string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[table][id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return row, nil
}

func (f *fakeRemote) Upsert(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.put(table, row)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, table+"/"+row["id"].(string))
	return row, nil
}

func (f *fakeRemote) Delete(ctx context.Context, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, table+"/"+id)
	if _, ok := f.rows[table][id]; !ok {
		return remote.ErrNotFound
	}
	delete(f.rows[table], id)
	return nil
}

func (f *fakeRemote) Health(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

type syncFixture struct {
	db      *storage.DB
	queue   *outbox.Queue
	remote  *fakeRemote
	monitor *Monitor
	service *Service
}

func setupSync(t *testing.T, policy Policy) *syncFixture {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	queue := outbox.New(db, logger)
	fake := newFakeRemote()
	monitor := NewMonitor()
	service := New(db, queue, fake, monitor, policy, logger)
	return &syncFixture{db: db, queue: queue, remote: fake, monitor: monitor, service: service}
}
