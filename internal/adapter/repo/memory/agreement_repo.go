package memory

import (
	"context"
	"sort"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/trade"
)

type AgreementRepo struct {
	store *Store
}

func NewAgreementRepo(store *Store) AgreementRepo {
	return AgreementRepo{store: store}
}

func (r AgreementRepo) Get(_ context.Context, id int64) (trade.Agreement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.agreements[id]
	if !ok {
		return trade.Agreement{}, ports.ErrNotFound
	}
	return a, nil
}

func (r AgreementRepo) GetForUpdate(ctx context.Context, id int64) (trade.Agreement, error) {
	if err := r.store.lockRow(ctx, agreementLockKey(id)); err != nil {
		return trade.Agreement{}, err
	}
	return r.Get(ctx, id)
}

func (r AgreementRepo) ListExecutable(_ context.Context, now time.Time) ([]trade.Agreement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []trade.Agreement{}
	for _, a := range r.store.agreements {
		if a.Status != trade.AgreementActive || a.StartDate.After(now) {
			continue
		}
		if a.EndDate != nil && a.EndDate.Before(now) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r AgreementRepo) RecordExecution(ctx context.Context, id int64, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev, ok := r.store.agreements[id]
	if !ok {
		return ports.ErrNotFound
	}
	next := prev
	ts := at
	next.LastExecution = &ts
	r.store.agreements[id] = next
	r.store.record(ctx, func() { r.store.agreements[id] = prev })
	return nil
}
