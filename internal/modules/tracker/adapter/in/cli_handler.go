package in

import (
	"context"

	trackerdto "tasktrack/internal/modules/tracker/dto"
	trackerin "tasktrack/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Initialize(ctx context.Context) (trackerdto.StateOutput, error) {
	return h.usecase.Initialize(ctx)
}

func (h CLIHandler) AddProject(ctx context.Context, name string, runtime, boxes int) (trackerdto.AddProjectOutput, error) {
	return h.usecase.AddProject(ctx, trackerdto.AddProjectInput{Name: name, Runtime: runtime, Boxes: boxes})
}

func (h CLIHandler) AddTask(ctx context.Context, name string) (trackerdto.AddTaskOutput, error) {
	return h.usecase.AddTask(ctx, trackerdto.AddTaskInput{Name: name})
}

func (h CLIHandler) Start(ctx context.Context, project, task string) (trackerdto.StartOutput, error) {
	return h.usecase.Start(ctx, trackerdto.StartInput{Project: project, Task: task})
}

func (h CLIHandler) Stop(ctx context.Context) (trackerdto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (trackerdto.ActiveTimerOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) ListProjects(ctx context.Context) ([]trackerdto.ProjectOutput, error) {
	return h.usecase.ListProjects(ctx)
}

func (h CLIHandler) ListTasks(ctx context.Context) ([]string, error) {
	return h.usecase.ListTasks(ctx)
}

func (h CLIHandler) Summary(ctx context.Context) (trackerdto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) Export(ctx context.Context, path string) (trackerdto.ExportOutput, error) {
	return h.usecase.Export(ctx, trackerdto.ExportInput{Path: path})
}

func (h CLIHandler) WriteSummaryNote(ctx context.Context, path string) (trackerdto.SummaryNoteOutput, error) {
	return h.usecase.WriteSummaryNote(ctx, trackerdto.SummaryNoteInput{Path: path})
}
