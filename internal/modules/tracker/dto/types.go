package dto

import "time"

type AddProjectInput struct {
	Name    string
	Runtime int
	Boxes   int
}

type AddProjectOutput struct {
	Name    string
	Added   bool
	Runtime int
	Boxes   int
}

type AddTaskInput struct {
	Name string
}

type AddTaskOutput struct {
	Name  string
	Added bool
}

type ProjectOutput struct {
	Name    string
	Runtime int
	Boxes   int
}

type StartInput struct {
	Project string
	Task    string
}

// CommittedSession describes a session just written to the ledger.
type CommittedSession struct {
	Project  string
	Task     string
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

type StartOutput struct {
	Active   ActiveTimerOutput
	Previous *CommittedSession
}

type StopOutput struct {
	Stopped bool
	Session CommittedSession
}

// AutoStopInput names what triggered the stop, for logging only.
type AutoStopInput struct {
	Trigger string
}

type ActiveTimerOutput struct {
	Project   string
	Task      string
	StartedAt time.Time
}

type StateOutput struct {
	Running  bool
	Active   ActiveTimerOutput
	Elapsed  time.Duration
	Projects []ProjectOutput
	Tasks    []string
	Summary  SummaryOutput
}

type TaskTotalOutput struct {
	Task  string
	Hours string
}

type ProjectSummaryOutput struct {
	Project string
	Runtime int
	Boxes   int
	Last    time.Time
	Tasks   []TaskTotalOutput
	Total   string
}

type SummaryOutput struct {
	Projects []ProjectSummaryOutput
}

type ExportInput struct {
	// Path is the CSV destination; "-" writes to the export writer's stdout.
	Path string
}

type ExportOutput struct {
	Path string
	Rows int
}

type SummaryNoteInput struct {
	Path string
}

type SummaryNoteOutput struct {
	Path     string
	Projects int
}
