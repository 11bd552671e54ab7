package in

import (
	"sync"
	"time"

	trackerdto "tasktrack/internal/modules/tracker/dto"
	"tasktrack/internal/platform/timefmt"
)

// RefreshInterval is how often a running timer's readout is redrawn.
const RefreshInterval = 500 * time.Millisecond

// Ticker redraws the elapsed time of the running timer. It only renders and
// never touches persisted state.
type Ticker struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewTicker(interval time.Duration, now func() time.Time) *Ticker {
	if interval <= 0 {
		interval = RefreshInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Ticker{interval: interval, now: now}
}

// Start renders the elapsed time of active immediately and then on every
// tick, replacing any loop already running.
func (t *Ticker) Start(active trackerdto.ActiveTimerOutput, render func(string)) {
	t.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	render(Elapsed(active, t.now()))
	go func() {
		defer close(done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				render(Elapsed(active, t.now()))
			}
		}
	}()
}

// Stop halts the loop. No render call happens after Stop returns.
func (t *Ticker) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Elapsed formats the time since active started as HH:MM:SS.
func Elapsed(active trackerdto.ActiveTimerOutput, now time.Time) string {
	return timefmt.Clock(now.Sub(active.StartedAt))
}
