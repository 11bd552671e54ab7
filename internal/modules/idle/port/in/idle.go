package in

import (
	"context"

	"tasktrack/internal/modules/idle/dto"
)

type Usecase interface {
	Watch(ctx context.Context, input dto.WatchInput) error
	Probe(ctx context.Context) (dto.ProbeOutput, error)
}
