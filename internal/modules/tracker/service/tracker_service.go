package service

import (
	"context"
	"strings"
	"time"

	"tasktrack/internal/modules/tracker/domain"
	trackerout "tasktrack/internal/modules/tracker/port/out"
	"tasktrack/internal/platform/clock"
	apperrors "tasktrack/internal/platform/errors"
)

type TrackerService struct {
	clock  clock.Clock
	ledger trackerout.LedgerStore
}

func NewTrackerService(clock clock.Clock, ledger trackerout.LedgerStore) *TrackerService {
	return &TrackerService{clock: clock, ledger: ledger}
}

func (s *TrackerService) Now() time.Time {
	return s.clock.Now()
}

func (s *TrackerService) NewTimer(project, task string, now time.Time) (domain.ActiveTimer, error) {
	if strings.TrimSpace(project) == "" || strings.TrimSpace(task) == "" {
		return domain.ActiveTimer{}, apperrors.ErrSelectionRequired
	}
	return domain.ActiveTimer{Project: project, Task: task, StartTime: now.UnixMilli()}, nil
}

// Commit closes active at now and appends the session to the ledger.
func (s *TrackerService) Commit(ctx context.Context, active domain.ActiveTimer, now time.Time) (domain.Session, error) {
	ledger, err := s.ledger.LoadLedger(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	session := active.Close(now.UnixMilli())
	ledger.Append(active.Project, active.Task, session)
	if err := s.ledger.SaveLedger(ctx, ledger); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *TrackerService) Summary(ctx context.Context, metaFor func(string) domain.ProjectMeta) ([]domain.ProjectSummary, error) {
	ledger, err := s.ledger.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Summarize(ledger, metaFor, domain.SummaryLimit), nil
}

// ExportRows flattens the ledger into one row per session in ledger order.
func (s *TrackerService) ExportRows(ctx context.Context, metaFor func(string) domain.ProjectMeta) ([]trackerout.ExportRow, error) {
	ledger, err := s.ledger.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]trackerout.ExportRow, 0, ledger.Len())
	ledger.Each(func(project, task string, session domain.Session) {
		rows = append(rows, trackerout.ExportRow{Project: project, Meta: metaFor(project), Task: task, Session: session})
	})
	return rows, nil
}
