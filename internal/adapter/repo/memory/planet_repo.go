package memory

import (
	"context"
	"sort"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
)

type PlanetRepo struct {
	store *Store
}

func NewPlanetRepo(store *Store) PlanetRepo {
	return PlanetRepo{store: store}
}

func (r PlanetRepo) Get(_ context.Context, id int64) (economy.Planet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.planets[id]
	if !ok {
		return economy.Planet{}, ports.ErrNotFound
	}
	return p, nil
}

func (r PlanetRepo) List(_ context.Context) ([]economy.Planet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]economy.Planet, 0, len(r.store.planets))
	for _, p := range r.store.planets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type ResourceRepo struct {
	store *Store
}

func NewResourceRepo(store *Store) ResourceRepo {
	return ResourceRepo{store: store}
}

func (r ResourceRepo) Get(_ context.Context, id int64) (economy.Resource, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	res, ok := r.store.resources[id]
	if !ok {
		return economy.Resource{}, ports.ErrNotFound
	}
	return res, nil
}

func (r ResourceRepo) List(_ context.Context) ([]economy.Resource, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]economy.Resource, 0, len(r.store.resources))
	for _, res := range r.store.resources {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
