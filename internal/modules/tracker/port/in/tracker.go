package in

import (
	"context"

	"tasktrack/internal/modules/tracker/dto"
)

type Usecase interface {
	Initialize(ctx context.Context) (dto.StateOutput, error)
	AddProject(ctx context.Context, input dto.AddProjectInput) (dto.AddProjectOutput, error)
	AddTask(ctx context.Context, input dto.AddTaskInput) (dto.AddTaskOutput, error)
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Stop(ctx context.Context) (dto.StopOutput, error)
	AutoStop(ctx context.Context, input dto.AutoStopInput) (dto.StopOutput, error)
	GetActive(ctx context.Context) (dto.ActiveTimerOutput, error)
	ListProjects(ctx context.Context) ([]dto.ProjectOutput, error)
	ListTasks(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	WriteSummaryNote(ctx context.Context, input dto.SummaryNoteInput) (dto.SummaryNoteOutput, error)
}
