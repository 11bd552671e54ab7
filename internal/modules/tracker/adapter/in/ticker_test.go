package in_test

import (
	"sync"
	"testing"
	"time"

	trackerin "tasktrack/internal/modules/tracker/adapter/in"
	trackerdto "tasktrack/internal/modules/tracker/dto"
)

func TestTickerRendersUntilStopped(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	now := start.Add(3723 * time.Second)
	ticker := trackerin.NewTicker(time.Millisecond, func() time.Time { return now })

	var mu sync.Mutex
	var frames []string
	ticker.Start(trackerdto.ActiveTimerOutput{Project: "P", Task: "T", StartedAt: start}, func(s string) {
		mu.Lock()
		frames = append(frames, s)
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	ticker.Stop()

	mu.Lock()
	count := len(frames)
	first := frames[0]
	mu.Unlock()
	if first != "01:02:03" {
		t.Fatalf("unexpected first frame %s", first)
	}
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(frames) != count {
		t.Fatalf("render called after Stop returned")
	}
	ticker.Stop()
}

func TestElapsedClampsFutureStart(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	if got := trackerin.Elapsed(trackerdto.ActiveTimerOutput{StartedAt: start}, start.Add(-time.Minute)); got != "00:00:00" {
		t.Fatalf("expected clamp, got %s", got)
	}
}
