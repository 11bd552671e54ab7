package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	trackerdto "tasktrack/internal/modules/tracker/dto"
	apperrors "tasktrack/internal/platform/errors"
)

type fakeTracker struct {
	state     trackerdto.StateOutput
	started   []string
	projects  []trackerdto.AddProjectOutput
	startErr  error
	exportOut string
}

func (f *fakeTracker) Initialize(context.Context) (trackerdto.StateOutput, error) {
	return f.state, nil
}

func (f *fakeTracker) AddProject(_ context.Context, name string, runtime, boxes int) (trackerdto.AddProjectOutput, error) {
	out := trackerdto.AddProjectOutput{Name: name, Added: true, Runtime: runtime, Boxes: boxes}
	f.projects = append(f.projects, out)
	return out, nil
}

func (f *fakeTracker) AddTask(_ context.Context, name string) (trackerdto.AddTaskOutput, error) {
	return trackerdto.AddTaskOutput{Name: name, Added: name != ""}, nil
}

func (f *fakeTracker) Start(_ context.Context, project, task string) (trackerdto.StartOutput, error) {
	if f.startErr != nil {
		return trackerdto.StartOutput{}, f.startErr
	}
	f.started = append(f.started, project+"/"+task)
	return trackerdto.StartOutput{Active: trackerdto.ActiveTimerOutput{Project: project, Task: task}}, nil
}

func (f *fakeTracker) Stop(context.Context) (trackerdto.StopOutput, error) {
	return trackerdto.StopOutput{}, nil
}

func (f *fakeTracker) Export(_ context.Context, path string) (trackerdto.ExportOutput, error) {
	f.exportOut = path
	return trackerdto.ExportOutput{Path: path, Rows: 3}, nil
}

func TestParseProjectArgs(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		name    string
		runtime int
		boxes   int
	}{
		" Alpha":                {name: "Alpha"},
		" Alpha -- 10":          {name: "Alpha", runtime: 10},
		" Alpha Beta -- 10 2":   {name: "Alpha Beta", runtime: 10, boxes: 2},
		" 2024":                 {name: "2024"},
		" Release 2025":         {name: "Release 2025"},
		" Release 2025 -- 30 4": {name: "Release 2025", runtime: 30, boxes: 4},
		" Alpha   Beta ":        {name: "Alpha   Beta"},
		" Alpha --":             {name: "Alpha"},
		" Q--3":                 {name: "Q--3"},
	}
	for raw, tc := range cases {
		name, runtime, boxes, err := parseProjectArgs(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if name != tc.name || runtime != tc.runtime || boxes != tc.boxes {
			t.Fatalf("parse %q = %q %d %d", raw, name, runtime, boxes)
		}
	}
	for _, raw := range []string{" Alpha -- -1", " Alpha -- ten", " Alpha -- 1 2 3"} {
		if _, _, _, err := parseProjectArgs(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestPaletteProjectAddCallsTracker(t *testing.T) {
	t.Parallel()

	tracker := &fakeTracker{}
	m := NewModel(tracker)
	_, cmd := m.executePalette("project:add Alpha -- 10 2")
	if cmd == nil {
		t.Fatalf("expected command")
	}
	msg, ok := cmd().(projectAddedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	if msg.out.Name != "Alpha" || msg.out.Runtime != 10 || msg.out.Boxes != 2 {
		t.Fatalf("unexpected project add: %+v", msg.out)
	}
}

func TestStartValidationErrorShownInStatus(t *testing.T) {
	t.Parallel()

	tracker := &fakeTracker{startErr: apperrors.ErrSelectionRequired}
	m := NewModel(tracker)
	next, _ := m.Update(startedMsg{err: tracker.startErr})
	status := next.(Model).status
	if !strings.HasPrefix(status, "! ") {
		t.Fatalf("expected alert status, got %q", status)
	}

	next, _ = m.Update(startedMsg{err: errors.New("disk full")})
	if got := next.(Model).status; got != "start failed: disk full" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestStateLoadResumesRunningTimer(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	tracker := &fakeTracker{state: trackerdto.StateOutput{
		Running:  true,
		Active:   trackerdto.ActiveTimerOutput{Project: "P", Task: "T", StartedAt: started},
		Elapsed:  90 * time.Minute,
		Projects: []trackerdto.ProjectOutput{{Name: "P"}},
		Tasks:    []string{"T"},
	}}
	m := NewModel(tracker)
	next, cmd := m.Update(m.loadStateCmd()())
	model := next.(Model)
	if !model.running || model.elapsed != "01:30:00" {
		t.Fatalf("expected running readout, got running=%v elapsed=%s", model.running, model.elapsed)
	}
	if cmd == nil {
		t.Fatalf("expected tick to be scheduled")
	}
	if model.selection.SelectedProject() != "P" || model.selection.SelectedTask() != "T" {
		t.Fatalf("expected selection to follow the active timer")
	}

	next, _ = model.Update(tickMsg{id: model.tickID, at: started.Add(2 * time.Hour)})
	if got := next.(Model).elapsed; got != "02:00:00" {
		t.Fatalf("unexpected elapsed after tick: %s", got)
	}
	next, _ = model.Update(tickMsg{id: model.tickID - 1, at: started.Add(3 * time.Hour)})
	if got := next.(Model).elapsed; got != "01:30:00" {
		t.Fatalf("stale tick should be ignored, got %s", got)
	}
}

func TestAutoStoppedReloadsState(t *testing.T) {
	t.Parallel()

	m := NewModel(&fakeTracker{})
	m.running = true
	next, cmd := m.Update(AutoStoppedMsg{Trigger: "idle"})
	if got := next.(Model).status; got != "auto-stopped (idle)" {
		t.Fatalf("unexpected status %q", got)
	}
	if cmd == nil {
		t.Fatalf("expected reload")
	}
	if _, ok := cmd().(stateLoadedMsg); !ok {
		t.Fatalf("expected state reload message")
	}
}

var _ tea.Model = Model{}

func TestPaletteProjectAddKeepsNumericNameWords(t *testing.T) {
	t.Parallel()

	m := NewModel(&fakeTracker{})
	_, cmd := m.executePalette("  project:add Release  2025 ")
	if cmd == nil {
		t.Fatalf("expected command")
	}
	msg, ok := cmd().(projectAddedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	if msg.out.Name != "Release  2025" || msg.out.Runtime != 0 || msg.out.Boxes != 0 {
		t.Fatalf("unexpected project add: %+v", msg.out)
	}
}
