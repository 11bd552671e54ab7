package domain

import (
	"errors"
	"fmt"
	"time"
)

// State is the user's presence as seen by the operating system.
type State string

const (
	StateActive State = "active"
	StateIdle   State = "idle"
	StateLocked State = "locked"
)

func ParseState(raw string) (State, error) {
	switch State(raw) {
	case StateActive, StateIdle, StateLocked:
		return State(raw), nil
	default:
		return "", fmt.Errorf("unknown idle state %q", raw)
	}
}

type SignalKind string

const (
	SignalStateChanged SignalKind = "state_changed"
	SignalSuspend      SignalKind = "suspend"
)

// Signal is one observation from a signal source. State is set only for
// SignalStateChanged.
type Signal struct {
	Kind  SignalKind
	State State
	At    time.Time
}

func StateChanged(state State, at time.Time) Signal {
	return Signal{Kind: SignalStateChanged, State: state, At: at}
}

func Suspend(at time.Time) Signal {
	return Signal{Kind: SignalSuspend, At: at}
}

// TriggersStop reports whether the running timer should be stopped.
func (s Signal) TriggersStop() bool {
	switch s.Kind {
	case SignalSuspend:
		return true
	case SignalStateChanged:
		return s.State == StateIdle || s.State == StateLocked
	default:
		return false
	}
}

// Trigger names the cause of a stop: "idle", "locked" or "suspend".
func (s Signal) Trigger() string {
	if s.Kind == SignalSuspend {
		return string(SignalSuspend)
	}
	return string(s.State)
}

// Reading is a raw probe sample.
type Reading struct {
	Idle   time.Duration
	Locked bool
}

func (r Reading) Classify(threshold time.Duration) State {
	switch {
	case r.Locked:
		return StateLocked
	case r.Idle >= threshold:
		return StateIdle
	default:
		return StateActive
	}
}

// ErrSuspended is returned by a source once the process is going away.
var ErrSuspended = errors.New("process suspending")

// ErrProbeUnavailable marks a probe that cannot run on this host.
var ErrProbeUnavailable = errors.New("idle probe unavailable")
