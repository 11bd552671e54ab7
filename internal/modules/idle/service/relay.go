package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"tasktrack/internal/modules/idle/domain"
	"tasktrack/internal/modules/idle/dto"
)

// Relay turns signals into messages. It keeps no state and never retries.
type Relay struct {
	log *logrus.Entry
}

func NewRelay(log *logrus.Entry) Relay {
	return Relay{log: log}
}

func (r Relay) Translate(signal domain.Signal) (dto.Message, bool) {
	if !signal.TriggersStop() {
		return nil, false
	}
	return dto.AutoStop{Trigger: signal.Trigger()}, true
}

// Dispatch delivers the message for signal, if any. Sink errors are logged
// and dropped.
func (r Relay) Dispatch(ctx context.Context, source string, signal domain.Signal, sink dto.Sink) {
	msg, ok := r.Translate(signal)
	entry := r.log.WithFields(logrus.Fields{"source": source, "kind": signal.Kind, "state": signal.State})
	if !ok {
		entry.Debug("signal ignored")
		return
	}
	entry.Info("auto-stop requested")
	if sink == nil {
		return
	}
	if err := sink(ctx, msg); err != nil {
		entry.WithError(err).Error("auto-stop delivery failed")
	}
}
