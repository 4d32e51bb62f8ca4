package memory

import (
	"context"
	"sort"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/weather"
)

type WeatherRepo struct {
	store *Store
}

func NewWeatherRepo(store *Store) WeatherRepo {
	return WeatherRepo{store: store}
}

func (r WeatherRepo) Create(ctx context.Context, e weather.Event) (weather.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e.ID = r.store.allocID()
	r.store.weather[e.ID] = e
	id := e.ID
	r.store.record(ctx, func() { delete(r.store.weather, id) })
	return e, nil
}

func (r WeatherRepo) ListActive(_ context.Context, now time.Time) ([]weather.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []weather.Event{}
	for _, e := range r.store.weather {
		if e.ActiveAt(now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r WeatherRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for id, e := range r.store.weather {
		if !e.Expired(now) {
			continue
		}
		delete(r.store.weather, id)
		gone := e
		r.store.record(ctx, func() { r.store.weather[gone.ID] = gone })
		n++
	}
	return n, nil
}

func (r WeatherRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.weather[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.store.weather, id)
	r.store.record(ctx, func() { r.store.weather[e.ID] = e })
	return nil
}
