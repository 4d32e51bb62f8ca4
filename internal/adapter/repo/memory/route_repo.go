package memory

import (
	"context"
	"sort"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/trade"
)

type RouteRepo struct {
	store *Store
}

func NewRouteRepo(store *Store) RouteRepo {
	return RouteRepo{store: store}
}

func (r RouteRepo) Get(_ context.Context, id int64) (trade.Route, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	route, ok := r.store.routes[id]
	if !ok {
		return trade.Route{}, ports.ErrNotFound
	}
	return route, nil
}

func (r RouteRepo) List(_ context.Context) ([]trade.Route, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]trade.Route, 0, len(r.store.routes))
	for _, route := range r.store.routes {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r RouteRepo) ExistsBetween(_ context.Context, startPlanetID, destinationPlanetID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, route := range r.store.routes {
		if route.StartingPlanetID == startPlanetID && route.DestinationPlanetID == destinationPlanetID {
			return true, nil
		}
	}
	return false, nil
}

func (r RouteRepo) Create(ctx context.Context, route trade.Route) (trade.Route, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.routes {
		if existing.Name == route.Name {
			return trade.Route{}, ports.ErrConflict
		}
	}
	route.ID = r.store.allocID()
	r.store.routes[route.ID] = route
	id := route.ID
	r.store.record(ctx, func() { delete(r.store.routes, id) })
	return route, nil
}

func (r RouteRepo) Update(ctx context.Context, route trade.Route) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prev, ok := r.store.routes[route.ID]
	if !ok {
		return ports.ErrNotFound
	}
	r.store.routes[route.ID] = route
	r.store.record(ctx, func() { r.store.routes[prev.ID] = prev })
	return nil
}
