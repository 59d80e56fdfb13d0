// ABOUTME: Tests for the sync queue.
// ABOUTME: Covers dedup of unprocessed entries, payload encoding, and retention GC.
package outbox

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/fittrack/internal/storage"
)

func setupTestQueue(t *testing.T) *Queue {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, logger)
}

func TestEnqueueStoresObfuscatedPayload(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	payload := map[string]any{
		"id":         "w1",
		"name":       "Push Day",
		"updated_at": "2026-03-10T08:00:00Z",
	}
	if err := q.Enqueue(ctx, "workout_logs", "w1", OpUpsert, payload); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, err := q.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.Table != "workout_logs" || it.RecordID != "w1" || it.Op != OpUpsert {
		t.Errorf("item = %+v", it)
	}

	// The stored payload must not leak plaintext field values.
	raw, err := base64.StdEncoding.DecodeString(it.EncPayload)
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if strings.Contains(string(raw), "Push Day") {
		t.Error("payload stored in cleartext")
	}

	decoded, err := q.DecodePayload(it)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if decoded["name"] != "Push Day" || decoded["updated_at"] != "2026-03-10T08:00:00Z" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestEnqueueDefaultsPayload(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	// Deletes carry no row data; the queue synthesizes id and updated_at.
	if err := q.Enqueue(ctx, "meals", "m1", OpDelete, nil); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, _ := q.Pending(ctx)
	decoded, err := q.DecodePayload(items[0])
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if decoded["id"] != "m1" {
		t.Errorf("id = %v", decoded["id"])
	}
	if _, err := time.Parse(time.RFC3339, decoded["updated_at"].(string)); err != nil {
		t.Errorf("updated_at not stamped: %v", decoded["updated_at"])
	}
}

func TestEnqueueDedupesUnprocessedPerRecord(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	for _, weight := range []float64{82.5, 82.1, 81.9} {
		err := q.Enqueue(ctx, "daily_weights", "d1", OpUpsert,
			map[string]any{"id": "d1", "weight": weight})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}
	// A different record is not affected by the dedup.
	if err := q.Enqueue(ctx, "daily_weights", "d2", OpUpsert,
		map[string]any{"id": "d2", "weight": 70.0}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, err := q.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 pending items after dedup, got %d", len(items))
	}

	decoded, _ := q.DecodePayload(items[0])
	if decoded["weight"] != 81.9 {
		t.Errorf("kept payload weight = %v, want the latest 81.9", decoded["weight"])
	}
}

func TestPendingReturnsEnqueueOrder(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	// Timestamps whose RFC3339Nano forms compare out of order as strings:
	// ".25Z" sorts before ".2Z". Creation order must hold regardless, so a
	// parent row always replays before its children.
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(250 * time.Millisecond),
		base.Add(200 * time.Millisecond),
		base.Add(290 * time.Millisecond),
	}
	records := []string{"w1", "e1", "s1"}
	for i, rec := range records {
		ts := stamps[i]
		q.now = func() time.Time { return ts }
		if err := q.Enqueue(ctx, "workout_logs", rec, OpUpsert, map[string]any{"id": rec}); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	items, err := q.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, rec := range records {
		if items[i].RecordID != rec {
			t.Errorf("items[%d] = %s, want %s", i, items[i].RecordID, rec)
		}
	}
}

func TestDeleteSupersedesPendingUpsert(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	if err := q.Enqueue(ctx, "meals", "m1", OpUpsert, map[string]any{"id": "m1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := q.Enqueue(ctx, "meals", "m1", OpDelete, nil); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, _ := q.Pending(ctx)
	if len(items) != 1 || items[0].Op != OpDelete {
		t.Errorf("items = %+v, want single DELETE", items)
	}
}

func TestProcessedEntriesAreNotDeduped(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	if err := q.Enqueue(ctx, "users", "u1", OpUpsert, map[string]any{"id": "u1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	items, _ := q.Pending(ctx)
	if err := q.MarkProcessed(ctx, items[0].ID); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	// The processed entry stays as history; a new mutation queues alongside it.
	if err := q.Enqueue(ctx, "users", "u1", OpUpsert, map[string]any{"id": "u1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	pending, _ := q.Pending(ctx)
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
	n, err := q.PendingCount(ctx)
	if err != nil || n != 1 {
		t.Errorf("PendingCount = %d, %v", n, err)
	}
}

func TestRecordErrorKeepsEntryPending(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	if err := q.Enqueue(ctx, "users", "u1", OpUpsert, map[string]any{"id": "u1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	items, _ := q.Pending(ctx)
	if err := q.RecordError(ctx, items[0].ID, "server returned 500"); err != nil {
		t.Fatalf("RecordError failed: %v", err)
	}

	items, _ = q.Pending(ctx)
	if len(items) != 1 {
		t.Fatal("errored entry must stay pending")
	}
	if items[0].LastError == nil || *items[0].LastError != "server returned 500" {
		t.Errorf("last error = %v", items[0].LastError)
	}
}

func TestCollectDropsOldProcessedEntries(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	// Age the first entry past the retention window.
	old := time.Now().Add(-8 * 24 * time.Hour)
	q.now = func() time.Time { return old }
	if err := q.Enqueue(ctx, "users", "u1", OpUpsert, map[string]any{"id": "u1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	items, _ := q.Pending(ctx)
	if err := q.MarkProcessed(ctx, items[0].ID); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	q.now = time.Now
	if err := q.Enqueue(ctx, "users", "u2", OpUpsert, map[string]any{"id": "u2"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	n, err := q.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if n != 1 {
		t.Errorf("collected %d entries, want 1", n)
	}

	// The fresh unprocessed entry survives.
	pending, _ := q.Pending(ctx)
	if len(pending) != 1 || pending[0].RecordID != "u2" {
		t.Errorf("pending = %+v", pending)
	}
}

func TestDrainHookFiresAfterEnqueue(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	fired := 0
	q.SetDrainHook(func() { fired++ })
	if err := q.Enqueue(ctx, "users", "u1", OpUpsert, map[string]any{"id": "u1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("drain hook fired %d times, want 1", fired)
	}
}
