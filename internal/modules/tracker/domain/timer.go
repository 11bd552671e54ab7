package domain

import (
	"fmt"
	"time"

	"tasktrack/internal/platform/timefmt"
)

// ProjectMeta is the user-entered planning data attached to a project.
type ProjectMeta struct {
	Runtime int `json:"runtime"`
	Boxes   int `json:"boxes"`
}

// Session is one completed interval of work in epoch milliseconds.
type Session struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (s Session) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Millisecond
}

func (s Session) Validate() error {
	if s.End < s.Start {
		return fmt.Errorf("session ends before it starts: %d < %d", s.End, s.Start)
	}
	return nil
}

// ActiveTimer is the persisted record of the running timer.
type ActiveTimer struct {
	Project   string `json:"project"`
	Task      string `json:"task"`
	StartTime int64  `json:"startTime"`
}

// Close turns the timer into a session ending at end. An end earlier than
// the start, as after a wall clock step back, collapses to a zero-length
// session.
func (a ActiveTimer) Close(end int64) Session {
	if end < a.StartTime {
		end = a.StartTime
	}
	return Session{Start: a.StartTime, End: end}
}

func (a ActiveTimer) Handle() TimerSession {
	return TimerSession{Project: a.Project, Task: a.Task, StartedAt: time.UnixMilli(a.StartTime).UTC()}
}

// TimerSession is the in-memory view of a running timer used for display.
type TimerSession struct {
	Project   string
	Task      string
	StartedAt time.Time
}

func (t TimerSession) Elapsed(now time.Time) time.Duration {
	d := now.Sub(t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders a running duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	return timefmt.Clock(d)
}
