package out

import (
	"context"

	"tasktrack/internal/modules/idle/domain"
)

// SignalSource blocks until ctx is done, calling emit for every observed
// signal. Returning domain.ErrSuspended ends the whole watch.
type SignalSource interface {
	Name() string
	Watch(ctx context.Context, emit func(domain.Signal)) error
}

type StateProbe interface {
	Name() string
	Probe(ctx context.Context) (domain.Reading, error)
}
