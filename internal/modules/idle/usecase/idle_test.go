package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	idleout "tasktrack/internal/modules/idle/adapter/out"
	"tasktrack/internal/modules/idle/domain"
	idledto "tasktrack/internal/modules/idle/dto"
	idleport "tasktrack/internal/modules/idle/port/out"
	"tasktrack/internal/modules/idle/usecase"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []idledto.Message
	err      error
}

func (r *recordingSink) Handle(_ context.Context, msg idledto.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.err
}

func (r *recordingSink) snapshot() []idledto.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]idledto.Message(nil), r.messages...)
}

type failingSource struct{ called chan struct{} }

func (failingSource) Name() string { return "broken" }

func (f failingSource) Watch(context.Context, func(domain.Signal)) error {
	close(f.called)
	return errors.New("device gone")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("condition not met in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWatchEmitsAutoStopForIdleLockedAndSuspend(t *testing.T) {
	t.Parallel()
	source := idleout.NewChannelSource("test", 8)
	uc := usecase.NewInteractor(usecase.Config{Sources: []idleport.SignalSource{source}})
	sink := &recordingSink{}

	ctx := context.Background()
	now := time.Unix(100, 0)
	source.Push(ctx, domain.StateChanged(domain.StateActive, now))
	source.Push(ctx, domain.StateChanged(domain.StateIdle, now))
	source.Push(ctx, domain.StateChanged(domain.StateLocked, now))
	source.Push(ctx, domain.Suspend(now))

	done := make(chan error, 1)
	go func() { done <- uc.Watch(ctx, idledto.WatchInput{Sink: sink.Handle}) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not return after suspend")
	}

	got := sink.snapshot()
	want := []string{"idle", "locked", "suspend"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %#v", len(want), got)
	}
	for i, msg := range got {
		stop, ok := msg.(idledto.AutoStop)
		if !ok || stop.Trigger != want[i] {
			t.Fatalf("unexpected message %d: %#v", i, msg)
		}
	}
}

func TestWatchKeepsRunningWhenOneSourceFails(t *testing.T) {
	t.Parallel()
	logger, hook := logtest.NewNullLogger()
	source := idleout.NewChannelSource("test", 4)
	broken := failingSource{called: make(chan struct{})}
	uc := usecase.NewInteractor(usecase.Config{
		Sources: []idleport.SignalSource{broken, source},
		Log:     logrus.NewEntry(logger),
	})
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- uc.Watch(ctx, idledto.WatchInput{Sink: sink.Handle}) }()

	<-broken.called
	waitFor(t, func() bool {
		for _, entry := range hook.AllEntries() {
			if entry.Message == "idle source failed" && entry.Data["source"] == "broken" {
				return true
			}
		}
		return false
	})
	source.Push(ctx, domain.StateChanged(domain.StateIdle, time.Now()))
	waitFor(t, func() bool { return len(sink.snapshot()) == 1 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}

func TestWatchLogsAndDropsSinkErrors(t *testing.T) {
	t.Parallel()
	logger, hook := logtest.NewNullLogger()
	source := idleout.NewChannelSource("test", 4)
	uc := usecase.NewInteractor(usecase.Config{Sources: []idleport.SignalSource{source}, Log: logrus.NewEntry(logger)})
	sink := &recordingSink{err: errors.New("store locked")}

	ctx, cancel := context.WithCancel(context.Background())
	source.Push(ctx, domain.StateChanged(domain.StateIdle, time.Now()))
	done := make(chan error, 1)
	go func() { done <- uc.Watch(ctx, idledto.WatchInput{Sink: sink.Handle}) }()

	waitFor(t, func() bool { return len(sink.snapshot()) > 0 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "auto-stop delivery failed" {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected delivery failure to be logged")
	}
}

type fixedProbe struct{ reading domain.Reading }

func (fixedProbe) Name() string { return "fixed" }

func (p fixedProbe) Probe(context.Context) (domain.Reading, error) { return p.reading, nil }

func TestProbeClassifiesReading(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(usecase.Config{Probe: fixedProbe{reading: domain.Reading{Idle: 6 * time.Minute}}, Threshold: 5 * time.Minute})
	out, err := uc.Probe(context.Background())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if out.State != "idle" || out.Probe != "fixed" || out.Idle != 6*time.Minute {
		t.Fatalf("unexpected probe output %+v", out)
	}

	none := usecase.NewInteractor(usecase.Config{})
	if _, err := none.Probe(context.Background()); !errors.Is(err, domain.ErrProbeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
