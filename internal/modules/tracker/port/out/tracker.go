package out

import (
	"context"

	"tasktrack/internal/modules/tracker/domain"
)

type CatalogStore interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
	SaveProjects(ctx context.Context, projects []string, meta map[string]domain.ProjectMeta) error
	SaveTasks(ctx context.Context, tasks []string) error
}

type LedgerStore interface {
	LoadLedger(ctx context.Context) (*domain.Ledger, error)
	SaveLedger(ctx context.Context, ledger *domain.Ledger) error
}

// ActiveTimerStore returns apperrors.ErrNoActiveTimer from LoadActive when
// no timer is persisted.
type ActiveTimerStore interface {
	SaveActive(ctx context.Context, timer domain.ActiveTimer) error
	LoadActive(ctx context.Context) (domain.ActiveTimer, error)
	ClearActive(ctx context.Context) error
}

// ExportRow is one CSV line of the session log.
type ExportRow struct {
	Project string
	Meta    domain.ProjectMeta
	Task    string
	Session domain.Session
}

type ExportWriter interface {
	WriteExport(ctx context.Context, path string, rows []ExportRow) (string, error)
}

type SummaryNoteWriter interface {
	WriteSummaryNote(ctx context.Context, path string, summaries []domain.ProjectSummary) (string, error)
}
