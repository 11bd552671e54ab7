package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tasktrack/internal/modules/tracker/domain"
	trackerdto "tasktrack/internal/modules/tracker/dto"
	trackerin "tasktrack/internal/modules/tracker/port/in"
	trackerout "tasktrack/internal/modules/tracker/port/out"
	"tasktrack/internal/modules/tracker/service"
	apperrors "tasktrack/internal/platform/errors"
	"tasktrack/internal/platform/logging"
	"tasktrack/internal/platform/timefmt"
	"tasktrack/internal/platform/tx"
)

type Dependencies struct {
	Catalog  trackerout.CatalogStore
	Active   trackerout.ActiveTimerStore
	Tx       tx.Manager
	Exporter trackerout.ExportWriter
	Notes    trackerout.SummaryNoteWriter
	Log      *logrus.Entry
}

// Interactor serialises every read-modify-write of the tracker state so the
// UI and the idle monitor can call it from different goroutines.
type Interactor struct {
	mu       sync.Mutex
	svc      *service.TrackerService
	catalog  trackerout.CatalogStore
	active   trackerout.ActiveTimerStore
	tx       tx.Manager
	exporter trackerout.ExportWriter
	notes    trackerout.SummaryNoteWriter
	log      *logrus.Entry
}

func NewInteractor(svc *service.TrackerService, deps Dependencies) trackerin.Usecase {
	i := &Interactor{
		svc:      svc,
		catalog:  deps.Catalog,
		active:   deps.Active,
		tx:       deps.Tx,
		exporter: deps.Exporter,
		notes:    deps.Notes,
		log:      deps.Log,
	}
	if i.tx == nil {
		i.tx = tx.NoopManager{}
	}
	if i.log == nil {
		i.log = logging.Component(nil, "tracker")
	}
	return i
}

func (i *Interactor) Initialize(ctx context.Context) (trackerdto.StateOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	catalog, err := i.catalog.LoadCatalog(ctx)
	if err != nil {
		return trackerdto.StateOutput{}, err
	}
	state := trackerdto.StateOutput{
		Projects: projectOutputs(catalog),
		Tasks:    append([]string(nil), catalog.Tasks...),
	}
	active, err := i.active.LoadActive(ctx)
	switch {
	case err == nil:
		handle := active.Handle()
		state.Running = true
		state.Active = activeOutput(active)
		state.Elapsed = handle.Elapsed(i.svc.Now())
	case errors.Is(err, apperrors.ErrNoActiveTimer):
	default:
		return trackerdto.StateOutput{}, err
	}
	summaries, err := i.svc.Summary(ctx, catalog.MetaFor)
	if err != nil {
		return trackerdto.StateOutput{}, err
	}
	state.Summary = summaryOutput(summaries)
	return state, nil
}

func (i *Interactor) AddProject(ctx context.Context, input trackerdto.AddProjectInput) (trackerdto.AddProjectOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return trackerdto.AddProjectOutput{}, apperrors.ErrProjectNameRequired
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	var added bool
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		catalog, err := i.catalog.LoadCatalog(ctx)
		if err != nil {
			return err
		}
		added = catalog.AddProject(name, domain.ProjectMeta{Runtime: input.Runtime, Boxes: input.Boxes})
		return i.catalog.SaveProjects(ctx, catalog.Projects, catalog.Meta)
	})
	if err != nil {
		return trackerdto.AddProjectOutput{}, err
	}
	i.log.WithFields(logrus.Fields{"project": name, "added": added}).Debug("project saved")
	return trackerdto.AddProjectOutput{Name: name, Added: added, Runtime: input.Runtime, Boxes: input.Boxes}, nil
}

func (i *Interactor) AddTask(ctx context.Context, input trackerdto.AddTaskInput) (trackerdto.AddTaskOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return trackerdto.AddTaskOutput{}, nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	var added bool
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		catalog, err := i.catalog.LoadCatalog(ctx)
		if err != nil {
			return err
		}
		if added = catalog.AddTask(name); !added {
			return nil
		}
		return i.catalog.SaveTasks(ctx, catalog.Tasks)
	})
	if err != nil {
		return trackerdto.AddTaskOutput{}, err
	}
	return trackerdto.AddTaskOutput{Name: name, Added: added}, nil
}

func (i *Interactor) Start(ctx context.Context, input trackerdto.StartInput) (trackerdto.StartOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.svc.Now()
	timer, err := i.svc.NewTimer(input.Project, input.Task, now)
	if err != nil {
		return trackerdto.StartOutput{}, err
	}
	out := trackerdto.StartOutput{Active: activeOutput(timer)}
	err = i.tx.Within(ctx, func(ctx context.Context) error {
		previous, err := i.active.LoadActive(ctx)
		switch {
		case err == nil:
			session, err := i.svc.Commit(ctx, previous, now)
			if err != nil {
				return err
			}
			committed := committedOutput(previous, session)
			out.Previous = &committed
		case !errors.Is(err, apperrors.ErrNoActiveTimer):
			return err
		}
		return i.active.SaveActive(ctx, timer)
	})
	if err != nil {
		return trackerdto.StartOutput{}, err
	}
	entry := i.log.WithFields(logrus.Fields{"project": timer.Project, "task": timer.Task})
	if out.Previous != nil {
		entry = entry.WithField("previous", out.Previous.Project+"/"+out.Previous.Task)
	}
	entry.Info("timer started")
	return out, nil
}

func (i *Interactor) Stop(ctx context.Context) (trackerdto.StopOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out, err := i.stopLocked(ctx)
	if err != nil {
		return trackerdto.StopOutput{}, err
	}
	if out.Stopped {
		i.log.WithFields(logrus.Fields{"project": out.Session.Project, "task": out.Session.Task, "duration": out.Session.Duration}).Info("timer stopped")
	}
	return out, nil
}

// AutoStop commits the running timer exactly like Stop.
func (i *Interactor) AutoStop(ctx context.Context, input trackerdto.AutoStopInput) (trackerdto.StopOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out, err := i.stopLocked(ctx)
	if err != nil {
		i.log.WithError(err).WithField("trigger", input.Trigger).Error("auto-stop failed")
		return trackerdto.StopOutput{}, err
	}
	if out.Stopped {
		i.log.WithFields(logrus.Fields{
			"trigger":  input.Trigger,
			"project":  out.Session.Project,
			"task":     out.Session.Task,
			"duration": out.Session.Duration,
		}).Info("timer auto-stopped")
	}
	return out, nil
}

func (i *Interactor) stopLocked(ctx context.Context) (trackerdto.StopOutput, error) {
	now := i.svc.Now()
	out := trackerdto.StopOutput{}
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		active, err := i.active.LoadActive(ctx)
		if errors.Is(err, apperrors.ErrNoActiveTimer) {
			return nil
		}
		if err != nil {
			return err
		}
		session, err := i.svc.Commit(ctx, active, now)
		if err != nil {
			return err
		}
		if err := i.active.ClearActive(ctx); err != nil {
			return err
		}
		out = trackerdto.StopOutput{Stopped: true, Session: committedOutput(active, session)}
		return nil
	})
	if err != nil {
		return trackerdto.StopOutput{}, err
	}
	return out, nil
}

func (i *Interactor) GetActive(ctx context.Context) (trackerdto.ActiveTimerOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	active, err := i.active.LoadActive(ctx)
	if err != nil {
		return trackerdto.ActiveTimerOutput{}, err
	}
	return activeOutput(active), nil
}

func (i *Interactor) ListProjects(ctx context.Context) ([]trackerdto.ProjectOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	catalog, err := i.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return projectOutputs(catalog), nil
}

func (i *Interactor) ListTasks(ctx context.Context) ([]string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	catalog, err := i.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), catalog.Tasks...), nil
}

func (i *Interactor) Summary(ctx context.Context) (trackerdto.SummaryOutput, error) {
	summaries, err := i.summaries(ctx)
	if err != nil {
		return trackerdto.SummaryOutput{}, err
	}
	return summaryOutput(summaries), nil
}

func (i *Interactor) Export(ctx context.Context, input trackerdto.ExportInput) (trackerdto.ExportOutput, error) {
	if i.exporter == nil {
		return trackerdto.ExportOutput{}, errors.New("export writer is not configured")
	}
	i.mu.Lock()
	catalog, err := i.catalog.LoadCatalog(ctx)
	if err != nil {
		i.mu.Unlock()
		return trackerdto.ExportOutput{}, err
	}
	rows, err := i.svc.ExportRows(ctx, catalog.MetaFor)
	i.mu.Unlock()
	if err != nil {
		return trackerdto.ExportOutput{}, err
	}
	path, err := i.exporter.WriteExport(ctx, input.Path, rows)
	if err != nil {
		return trackerdto.ExportOutput{}, err
	}
	i.log.WithFields(logrus.Fields{"path": path, "rows": len(rows)}).Info("log exported")
	return trackerdto.ExportOutput{Path: path, Rows: len(rows)}, nil
}

func (i *Interactor) WriteSummaryNote(ctx context.Context, input trackerdto.SummaryNoteInput) (trackerdto.SummaryNoteOutput, error) {
	if i.notes == nil {
		return trackerdto.SummaryNoteOutput{}, errors.New("summary note writer is not configured")
	}
	summaries, err := i.summaries(ctx)
	if err != nil {
		return trackerdto.SummaryNoteOutput{}, err
	}
	path, err := i.notes.WriteSummaryNote(ctx, input.Path, summaries)
	if err != nil {
		return trackerdto.SummaryNoteOutput{}, err
	}
	return trackerdto.SummaryNoteOutput{Path: path, Projects: len(summaries)}, nil
}

func (i *Interactor) summaries(ctx context.Context) ([]domain.ProjectSummary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	catalog, err := i.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return i.svc.Summary(ctx, catalog.MetaFor)
}

func activeOutput(timer domain.ActiveTimer) trackerdto.ActiveTimerOutput {
	handle := timer.Handle()
	return trackerdto.ActiveTimerOutput{Project: handle.Project, Task: handle.Task, StartedAt: handle.StartedAt}
}

func committedOutput(timer domain.ActiveTimer, session domain.Session) trackerdto.CommittedSession {
	return trackerdto.CommittedSession{
		Project:  timer.Project,
		Task:     timer.Task,
		Start:    time.UnixMilli(session.Start).UTC(),
		End:      time.UnixMilli(session.End).UTC(),
		Duration: session.Duration(),
	}
}

func projectOutputs(catalog domain.Catalog) []trackerdto.ProjectOutput {
	out := make([]trackerdto.ProjectOutput, 0, len(catalog.Projects))
	for _, name := range catalog.Projects {
		meta := catalog.MetaFor(name)
		out = append(out, trackerdto.ProjectOutput{Name: name, Runtime: meta.Runtime, Boxes: meta.Boxes})
	}
	return out
}

func summaryOutput(summaries []domain.ProjectSummary) trackerdto.SummaryOutput {
	out := trackerdto.SummaryOutput{Projects: make([]trackerdto.ProjectSummaryOutput, 0, len(summaries))}
	for _, s := range summaries {
		project := trackerdto.ProjectSummaryOutput{
			Project: s.Project,
			Runtime: s.Meta.Runtime,
			Boxes:   s.Meta.Boxes,
			Total:   timefmt.Hours(s.Total),
		}
		if s.Last > 0 {
			project.Last = time.UnixMilli(s.Last).UTC()
		}
		for _, task := range s.Tasks {
			project.Tasks = append(project.Tasks, trackerdto.TaskTotalOutput{Task: task.Task, Hours: timefmt.Hours(task.Duration)})
		}
		out.Projects = append(out.Projects, project)
	}
	return out
}
