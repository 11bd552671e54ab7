package dto

import (
	"context"
	"time"
)

// Message is what the idle monitor publishes. The set of variants is closed;
// consumers switch on the concrete type.
type Message interface {
	idleMessage()
}

// AutoStop asks the tracker to stop the running timer. Trigger is "idle",
// "locked" or "suspend".
type AutoStop struct {
	Trigger string
}

func (AutoStop) idleMessage() {}

// Sink receives messages synchronously on the emitting source's goroutine.
type Sink func(ctx context.Context, msg Message) error

type WatchInput struct {
	Sink Sink
}

type ProbeOutput struct {
	Probe string
	State string
	Idle  time.Duration
}
