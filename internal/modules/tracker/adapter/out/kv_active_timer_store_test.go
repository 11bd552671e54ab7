package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	trackerout "tasktrack/internal/modules/tracker/adapter/out"
	"tasktrack/internal/modules/tracker/domain"
	apperrors "tasktrack/internal/platform/errors"
	"tasktrack/internal/platform/kv"
)

func TestKVActiveTimerStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := kv.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	active := trackerout.NewKVActiveTimerStore(store)
	ctx := context.Background()

	want := domain.ActiveTimer{Project: "P", Task: "T", StartTime: 1_700_000_000_000}
	if err := active.SaveActive(ctx, want); err != nil {
		t.Fatalf("save active: %v", err)
	}
	got, err := active.LoadActive(ctx)
	if err != nil {
		t.Fatalf("load active: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := active.ClearActive(ctx); err != nil {
		t.Fatalf("clear active: %v", err)
	}
	if _, err := active.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveTimer) {
		t.Fatalf("expected no active timer after clear, got %v", err)
	}
}

func TestKVActiveTimerStoreIgnoresTimerWithoutStart(t *testing.T) {
	t.Parallel()
	store, err := kv.NewFile(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	active := trackerout.NewKVActiveTimerStore(store)

	cases := []any{
		map[string]any{"project": "P", "task": "T"},
		map[string]any{"project": "P", "task": "T", "startTime": 0},
		map[string]any{"project": "", "task": "T", "startTime": 5000},
	}
	for _, raw := range cases {
		if err := store.Set(ctx, "currentTimer", raw); err != nil {
			t.Fatalf("seed currentTimer: %v", err)
		}
		if _, err := active.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveTimer) {
			t.Fatalf("%v: expected no active timer, got %v", raw, err)
		}
	}
}
