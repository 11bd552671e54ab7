package out

import (
	"context"

	"tasktrack/internal/modules/tracker/domain"
	trackerout "tasktrack/internal/modules/tracker/port/out"
	"tasktrack/internal/platform/kv"
)

const keyLedger = "data"

type KVLedgerStore struct {
	store kv.Store
}

func NewKVLedgerStore(store kv.Store) trackerout.LedgerStore {
	return &KVLedgerStore{store: store}
}

func (s *KVLedgerStore) LoadLedger(ctx context.Context) (*domain.Ledger, error) {
	ledger := domain.NewLedger()
	if _, err := s.store.Get(ctx, keyLedger, ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *KVLedgerStore) SaveLedger(ctx context.Context, ledger *domain.Ledger) error {
	return s.store.Set(ctx, keyLedger, ledger)
}
