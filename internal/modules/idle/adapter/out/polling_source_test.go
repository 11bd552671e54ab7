package out_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	idleout "tasktrack/internal/modules/idle/adapter/out"
	"tasktrack/internal/modules/idle/domain"
	"tasktrack/internal/platform/logging"
)

type scriptedProbe struct {
	mu       sync.Mutex
	readings []domain.Reading
	errs     []error
	idx      int
	drained  chan struct{}
}

func (p *scriptedProbe) Name() string { return "scripted" }

func (p *scriptedProbe) Probe(context.Context) (domain.Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idx >= len(p.readings) {
		if p.drained != nil {
			close(p.drained)
			p.drained = nil
		}
		return p.readings[len(p.readings)-1], nil
	}
	reading := p.readings[p.idx]
	var err error
	if p.idx < len(p.errs) {
		err = p.errs[p.idx]
	}
	p.idx++
	return reading, err
}

func TestPollingSourceEmitsOnlyTransitions(t *testing.T) {
	t.Parallel()
	threshold := time.Minute
	probe := &scriptedProbe{
		readings: []domain.Reading{
			{Idle: time.Second},
			{Idle: 2 * time.Minute},
			{Idle: 3 * time.Minute},
			{Idle: 0, Locked: true},
			{Idle: time.Second},
		},
		drained: make(chan struct{}),
	}
	drained := probe.drained
	source := idleout.NewPollingSource(probe, time.Millisecond, threshold, logging.Component(nil, "test"))

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var states []domain.State
	done := make(chan error, 1)
	go func() {
		done <- source.Watch(ctx, func(signal domain.Signal) {
			mu.Lock()
			states = append(states, signal.State)
			mu.Unlock()
		})
	}()
	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatalf("probe was not drained")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []domain.State{domain.StateIdle, domain.StateLocked, domain.StateActive}
	if len(states) != len(want) {
		t.Fatalf("expected %v, got %v", want, states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, states)
		}
	}
}

func TestPollingSourceStopsWhenProbeUnavailable(t *testing.T) {
	t.Parallel()
	probe := &scriptedProbe{
		readings: []domain.Reading{{}},
		errs:     []error{domain.ErrProbeUnavailable},
	}
	source := idleout.NewPollingSource(probe, time.Millisecond, time.Minute, logging.Component(nil, "test"))
	err := source.Watch(context.Background(), func(domain.Signal) {})
	if !errors.Is(err, domain.ErrProbeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
