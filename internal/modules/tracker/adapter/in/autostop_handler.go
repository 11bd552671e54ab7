package in

import (
	"context"
	"fmt"

	idledto "tasktrack/internal/modules/idle/dto"
	trackerdto "tasktrack/internal/modules/tracker/dto"
	trackerin "tasktrack/internal/modules/tracker/port/in"
)

// AutoStopHandler applies idle monitor messages to the tracker.
type AutoStopHandler struct {
	usecase trackerin.Usecase
}

func NewAutoStopHandler(usecase trackerin.Usecase) AutoStopHandler {
	return AutoStopHandler{usecase: usecase}
}

// Handle matches idledto.WatchInput.Sink.
func (h AutoStopHandler) Handle(ctx context.Context, msg idledto.Message) error {
	switch m := msg.(type) {
	case idledto.AutoStop:
		_, err := h.usecase.AutoStop(ctx, trackerdto.AutoStopInput{Trigger: m.Trigger})
		return err
	default:
		return fmt.Errorf("unsupported idle message %T", msg)
	}
}
