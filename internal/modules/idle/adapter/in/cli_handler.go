package in

import (
	"context"

	idledto "tasktrack/internal/modules/idle/dto"
	idlein "tasktrack/internal/modules/idle/port/in"
)

type CLIHandler struct {
	usecase idlein.Usecase
}

func NewCLIHandler(usecase idlein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Watch(ctx context.Context, sink idledto.Sink) error {
	return h.usecase.Watch(ctx, idledto.WatchInput{Sink: sink})
}

func (h CLIHandler) Probe(ctx context.Context) (idledto.ProbeOutput, error) {
	return h.usecase.Probe(ctx)
}
