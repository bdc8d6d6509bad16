package progress_test

import (
	"errors"
	"testing"
	"time"

	"github.com/p-n-ai/pai-planner/internal/progress"
)

var doneAt = time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

func TestMemoryStore_MarkDone(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := t.Context()

	if err := store.MarkDone(ctx, "u1", "F1-01", doneAt); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	// Second mark keeps the first timestamp.
	if err := store.MarkDone(ctx, "u1", "F1-01", doneAt.Add(time.Hour)); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	got, err := store.Completed(ctx, "u1")
	if err != nil {
		t.Fatalf("Completed() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Completed() = %d records, want 1", len(got))
	}
	if !got["F1-01"].CompletedAt.Equal(doneAt) {
		t.Errorf("CompletedAt = %v, want %v", got["F1-01"].CompletedAt, doneAt)
	}
}

func TestMemoryStore_IsolatedUsers(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := t.Context()

	_ = store.MarkDone(ctx, "u1", "a", doneAt)
	_ = store.MarkDone(ctx, "u2", "b", doneAt)

	got, _ := store.Completed(ctx, "u1")
	if _, ok := got["b"]; ok {
		t.Error("u1 should not see u2's completion")
	}

	none, err := store.Completed(ctx, "nobody")
	if err != nil {
		t.Fatalf("Completed() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Completed(nobody) = %d, want 0", len(none))
	}
}

func TestMemoryStore_MarkUndone(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := t.Context()

	_ = store.MarkDone(ctx, "u1", "a", doneAt)
	if err := store.MarkUndone(ctx, "u1", "a"); err != nil {
		t.Fatalf("MarkUndone() error = %v", err)
	}

	err := store.MarkUndone(ctx, "u1", "a")
	if !errors.Is(err, progress.ErrNotFound) {
		t.Errorf("MarkUndone() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_RequiresKeys(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := t.Context()

	if err := store.MarkDone(ctx, "", "a", doneAt); err == nil {
		t.Error("MarkDone() should reject empty user")
	}
	if err := store.MarkDone(ctx, "u1", "", doneAt); err == nil {
		t.Error("MarkDone() should reject empty topic")
	}
}

func TestMemoryStore_RequiresTime(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx := t.Context()

	if err := store.MarkDone(ctx, "u1", "a", time.Time{}); !errors.Is(err, progress.ErrMissingTime) {
		t.Fatalf("MarkDone() error = %v, want ErrMissingTime", err)
	}
	got, err := store.Completed(ctx, "u1")
	if err != nil {
		t.Fatalf("Completed() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Completed() = %v, want nothing recorded", got)
	}
}
