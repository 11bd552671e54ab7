package out

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"tasktrack/internal/modules/idle/domain"
	idleout "tasktrack/internal/modules/idle/port/out"
)

// PollingSource samples a StateProbe on an interval and emits a
// state_changed signal only when the classified state differs from the
// previous one. The state before the first sample is active.
type PollingSource struct {
	probe     idleout.StateProbe
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	log       *logrus.Entry
}

func NewPollingSource(probe idleout.StateProbe, interval, threshold time.Duration, log *logrus.Entry) *PollingSource {
	return &PollingSource{probe: probe, interval: interval, threshold: threshold, now: time.Now, log: log}
}

func (p *PollingSource) Name() string {
	return "poll:" + p.probe.Name()
}

func (p *PollingSource) Watch(ctx context.Context, emit func(domain.Signal)) error {
	last := domain.StateActive
	sample := func() error {
		reading, err := p.probe.Probe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, domain.ErrProbeUnavailable) {
				return err
			}
			p.log.WithError(err).WithField("probe", p.probe.Name()).Warn("idle probe failed")
			return nil
		}
		state := reading.Classify(p.threshold)
		if state != last {
			last = state
			emit(domain.StateChanged(state, p.now()))
		}
		return nil
	}

	if err := sample(); err != nil {
		return err
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := sample(); err != nil {
				return err
			}
		}
	}
}
