package out

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktrack/internal/modules/idle/domain"
)

// SuspendSignalSource reports process shutdown as a suspend signal.
type SuspendSignalSource struct {
	signals []os.Signal
}

func NewSuspendSignalSource(signals ...os.Signal) *SuspendSignalSource {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
	}
	return &SuspendSignalSource{signals: signals}
}

func (s *SuspendSignalSource) Name() string {
	return "suspend"
}

func (s *SuspendSignalSource) Watch(ctx context.Context, emit func(domain.Signal)) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, s.signals...)
	defer signal.Stop(ch)
	select {
	case <-ctx.Done():
		return nil
	case <-ch:
		emit(domain.Suspend(time.Now()))
		return domain.ErrSuspended
	}
}
