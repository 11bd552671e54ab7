package out

import (
	"context"

	"tasktrack/internal/modules/idle/domain"
)

// ChannelSource forwards signals pushed by the host process. It returns
// domain.ErrSuspended after forwarding a suspend signal, like the OS source.
type ChannelSource struct {
	name    string
	signals chan domain.Signal
}

func NewChannelSource(name string, buffer int) *ChannelSource {
	return &ChannelSource{name: name, signals: make(chan domain.Signal, buffer)}
}

func (c *ChannelSource) Name() string {
	return c.name
}

// Push queues signal, dropping it when ctx ends first.
func (c *ChannelSource) Push(ctx context.Context, signal domain.Signal) {
	select {
	case c.signals <- signal:
	case <-ctx.Done():
	}
}

func (c *ChannelSource) Watch(ctx context.Context, emit func(domain.Signal)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case signal := <-c.signals:
			emit(signal)
			if signal.Kind == domain.SignalSuspend {
				return domain.ErrSuspended
			}
		}
	}
}
