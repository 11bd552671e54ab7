package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tasktrack/internal/modules/idle/domain"
	idledto "tasktrack/internal/modules/idle/dto"
	idlein "tasktrack/internal/modules/idle/port/in"
	idleout "tasktrack/internal/modules/idle/port/out"
	"tasktrack/internal/modules/idle/service"
	"tasktrack/internal/platform/logging"
)

type Config struct {
	Sources   []idleout.SignalSource
	Probe     idleout.StateProbe
	Threshold time.Duration
	Log       *logrus.Entry
}

type Interactor struct {
	sources   []idleout.SignalSource
	probe     idleout.StateProbe
	threshold time.Duration
	relay     service.Relay
	log       *logrus.Entry
}

func NewInteractor(cfg Config) idlein.Usecase {
	log := cfg.Log
	if log == nil {
		log = logging.Component(nil, "idle")
	}
	return &Interactor{
		sources:   cfg.Sources,
		probe:     cfg.Probe,
		threshold: cfg.Threshold,
		relay:     service.NewRelay(log),
		log:       log,
	}
}

// Watch runs every source until ctx is cancelled or one of them reports a
// suspend. A failing source is logged and the others keep running.
func (i *Interactor) Watch(ctx context.Context, input idledto.WatchInput) error {
	if len(i.sources) == 0 {
		i.log.Warn("no idle signal sources configured")
		<-ctx.Done()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, source := range i.sources {
		wg.Add(1)
		go func(source idleout.SignalSource) {
			defer wg.Done()
			name := source.Name()
			err := source.Watch(ctx, func(signal domain.Signal) {
				i.relay.Dispatch(ctx, name, signal, input.Sink)
			})
			switch {
			case errors.Is(err, domain.ErrSuspended):
				i.log.WithField("source", name).Info("suspend observed, stopping watch")
				cancel()
			case err != nil && ctx.Err() == nil:
				i.log.WithError(err).WithField("source", name).Error("idle source failed")
			}
		}(source)
	}
	wg.Wait()
	return nil
}

func (i *Interactor) Probe(ctx context.Context) (idledto.ProbeOutput, error) {
	if i.probe == nil {
		return idledto.ProbeOutput{}, domain.ErrProbeUnavailable
	}
	reading, err := i.probe.Probe(ctx)
	if err != nil {
		return idledto.ProbeOutput{}, err
	}
	return idledto.ProbeOutput{
		Probe: i.probe.Name(),
		State: string(reading.Classify(i.threshold)),
		Idle:  reading.Idle,
	}, nil
}
