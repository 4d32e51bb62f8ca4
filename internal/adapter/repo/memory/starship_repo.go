package memory

import (
	"context"
	"sort"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/fleet"
)

type StarshipRepo struct {
	store *Store
}

func NewStarshipRepo(store *Store) StarshipRepo {
	return StarshipRepo{store: store}
}

func (r StarshipRepo) Get(_ context.Context, id int64) (fleet.Starship, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.ships[id]
	if !ok {
		return fleet.Starship{}, ports.ErrNotFound
	}
	return s, nil
}

func (r StarshipRepo) GetForUpdate(ctx context.Context, id int64) (fleet.Starship, error) {
	if err := r.store.lockRow(ctx, starshipLockKey(id)); err != nil {
		return fleet.Starship{}, err
	}
	return r.Get(ctx, id)
}

func (r StarshipRepo) ListInTransit(_ context.Context) ([]fleet.Starship, error) {
	return r.filter(func(s fleet.Starship) bool { return s.Status == fleet.StatusInTransit }), nil
}

func (r StarshipRepo) ListByRoute(_ context.Context, routeID int64) ([]fleet.Starship, error) {
	return r.filter(func(s fleet.Starship) bool {
		return s.TradeRouteID != nil && *s.TradeRouteID == routeID
	}), nil
}

func (r StarshipRepo) filter(keep func(fleet.Starship) bool) []fleet.Starship {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []fleet.Starship{}
	for _, s := range r.store.ships {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r StarshipRepo) Save(ctx context.Context, ship fleet.Starship) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev, ok := r.store.ships[ship.ID]
	if !ok {
		return ports.ErrNotFound
	}
	r.store.ships[ship.ID] = ship
	r.store.record(ctx, func() { r.store.ships[prev.ID] = prev })
	return nil
}
