package out

import (
	"context"

	"tasktrack/internal/modules/tracker/domain"
	trackerout "tasktrack/internal/modules/tracker/port/out"
	apperrors "tasktrack/internal/platform/errors"
	"tasktrack/internal/platform/kv"
)

const keyCurrentTimer = "currentTimer"

type KVActiveTimerStore struct {
	store kv.Store
}

func NewKVActiveTimerStore(store kv.Store) trackerout.ActiveTimerStore {
	return &KVActiveTimerStore{store: store}
}

func (s *KVActiveTimerStore) SaveActive(ctx context.Context, timer domain.ActiveTimer) error {
	return s.store.Set(ctx, keyCurrentTimer, timer)
}

func (s *KVActiveTimerStore) LoadActive(ctx context.Context) (domain.ActiveTimer, error) {
	timer := domain.ActiveTimer{}
	found, err := s.store.Get(ctx, keyCurrentTimer, &timer)
	if err != nil {
		return domain.ActiveTimer{}, err
	}
	// A timer without a start time is treated as absent.
	if !found || timer.Project == "" || timer.Task == "" || timer.StartTime <= 0 {
		return domain.ActiveTimer{}, apperrors.ErrNoActiveTimer
	}
	return timer, nil
}

func (s *KVActiveTimerStore) ClearActive(ctx context.Context) error {
	return s.store.Delete(ctx, keyCurrentTimer)
}
