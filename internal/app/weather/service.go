package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
	spaceweather "galaxytrade/internal/domain/weather"

	"github.com/google/uuid"
)

var ErrNoRandomSource = errors.New("weather generation needs a random source")

type RouteStatus string

const (
	RouteActive    RouteStatus = "active"
	RouteDelayed   RouteStatus = "delayed"
	RouteDangerous RouteStatus = "dangerous"
)

type Service struct {
	Events    ports.WeatherRepository
	Planets   ports.PlanetRepository
	Routes    ports.RouteRepository
	Starships ports.StarshipRepository
	Rand      ports.RandomSource
	Logger    *slog.Logger
	Now       func() time.Time
}

type RouteImpact struct {
	Route       trade.Route `json:"route"`
	DelayFactor float64     `json:"delay_factor"`
	EventIDs    []int64     `json:"event_ids"`
}

type RouteStatusView struct {
	RouteID     int64       `json:"route_id"`
	Status      RouteStatus `json:"status"`
	DelayFactor float64     `json:"delay_factor"`
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default().With("component", "weather")
}

func (s Service) now(t time.Time) time.Time {
	if !t.IsZero() {
		return t
	}
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Generate spawns one event over the bounding box of all known planets.
func (s Service) Generate(ctx context.Context, now time.Time) (spaceweather.Event, error) {
	if s.Rand == nil {
		return spaceweather.Event{}, ErrNoRandomSource
	}
	now = s.now(now)
	planets, err := s.Planets.List(ctx)
	if err != nil {
		return spaceweather.Event{}, fmt.Errorf("list planets: %w", err)
	}
	event, err := spaceweather.Generator{Rand: s.Rand}.Generate(planets, now)
	if err != nil {
		return spaceweather.Event{}, err
	}
	event.Name = fmt.Sprintf("%s-%s", event.Type, uuid.NewString()[:8])
	created, err := s.Events.Create(ctx, event)
	if err != nil {
		return spaceweather.Event{}, fmt.Errorf("store weather event: %w", err)
	}
	s.logger().Info("weather event generated",
		"event_id", created.ID,
		"type", created.Type,
		"severity", created.Severity,
		"delay_factor", created.DelayFactor,
		"end_time", created.EndTime,
	)
	return created, nil
}

// Create stores an operator-defined event after validating it.
func (s Service) Create(ctx context.Context, event spaceweather.Event) (spaceweather.Event, error) {
	if event.DelayFactor == 0 {
		delay, err := spaceweather.DelayFactor(event.Type, event.Severity)
		if err != nil {
			return spaceweather.Event{}, err
		}
		event.DelayFactor = delay
	}
	if err := event.Validate(); err != nil {
		return spaceweather.Event{}, err
	}
	if event.Name == "" {
		event.Name = fmt.Sprintf("%s-%s", event.Type, uuid.NewString()[:8])
	}
	return s.Events.Create(ctx, event)
}

func (s Service) Active(ctx context.Context, now time.Time) ([]spaceweather.Event, error) {
	return s.Events.ListActive(ctx, s.now(now))
}

// PruneExpired deletes events whose window has closed. Arrival times already
// stretched by those events stay as they are.
func (s Service) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.Events.DeleteExpired(ctx, s.now(now))
	if err != nil {
		return 0, fmt.Errorf("prune weather events: %w", err)
	}
	if n > 0 {
		s.logger().Info("expired weather pruned", "count", n)
	}
	return n, nil
}

func (s Service) Clear(ctx context.Context, id int64) error {
	if err := s.Events.Delete(ctx, id); err != nil {
		return fmt.Errorf("weather event %d: %w", id, err)
	}
	return nil
}

func (s Service) path(ctx context.Context, route trade.Route) (trade.Path, error) {
	start, err := s.Planets.Get(ctx, route.StartingPlanetID)
	if err != nil {
		return trade.Path{}, fmt.Errorf("%w: starting planet %d: %w", trade.ErrInvalidRoute, route.StartingPlanetID, err)
	}
	end, err := s.Planets.Get(ctx, route.DestinationPlanetID)
	if err != nil {
		return trade.Path{}, fmt.Errorf("%w: destination planet %d: %w", trade.ErrInvalidRoute, route.DestinationPlanetID, err)
	}
	return trade.NewPath(route, start, end), nil
}

// DelayFactor is the current weather multiplier for a route, 1.0 in clear
// space.
func (s Service) DelayFactor(ctx context.Context, route trade.Route, now time.Time) (float64, error) {
	now = s.now(now)
	p, err := s.path(ctx, route)
	if err != nil {
		return 0, err
	}
	events, err := s.Events.ListActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list active weather: %w", err)
	}
	return spaceweather.ActiveDelayFactor(events, p, now), nil
}

// AffectedRoutes lists every route touched by at least one active event.
func (s Service) AffectedRoutes(ctx context.Context, now time.Time) ([]RouteImpact, error) {
	now = s.now(now)
	events, err := s.Events.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list active weather: %w", err)
	}
	routes, err := s.Routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	planets, err := s.planetIndex(ctx)
	if err != nil {
		return nil, err
	}

	out := []RouteImpact{}
	for _, r := range routes {
		start, ok1 := planets[r.StartingPlanetID]
		end, ok2 := planets[r.DestinationPlanetID]
		if !ok1 || !ok2 {
			continue
		}
		p := trade.NewPath(r, start, end)
		var ids []int64
		for _, e := range events {
			if spaceweather.IsRouteAffected(e, p) {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		out = append(out, RouteImpact{Route: r, DelayFactor: spaceweather.ActiveDelayFactor(events, p, now), EventIDs: ids})
	}
	return out, nil
}

func (s Service) planetIndex(ctx context.Context) (map[int64]economy.Planet, error) {
	planets, err := s.Planets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	idx := make(map[int64]economy.Planet, len(planets))
	for _, p := range planets {
		idx[p.ID] = p
	}
	return idx, nil
}

// RouteStatus is dangerous when a ship assigned to the route is in
// maintenance or overdue for it, delayed when active weather touches either
// endpoint, and active otherwise.
func (s Service) RouteStatus(ctx context.Context, routeID int64, now time.Time) (RouteStatusView, error) {
	now = s.now(now)
	route, err := s.Routes.Get(ctx, routeID)
	if err != nil {
		return RouteStatusView{}, fmt.Errorf("route %d: %w", routeID, err)
	}
	delay, err := s.DelayFactor(ctx, route, now)
	if err != nil {
		return RouteStatusView{}, err
	}
	view := RouteStatusView{RouteID: route.ID, Status: RouteActive, DelayFactor: delay}
	if delay > 1.0 {
		view.Status = RouteDelayed
	}
	if s.Starships != nil {
		ships, err := s.Starships.ListByRoute(ctx, route.ID)
		if err != nil {
			return RouteStatusView{}, fmt.Errorf("list route ships: %w", err)
		}
		for _, ship := range ships {
			if ship.Status == fleet.StatusMaintenance || ship.NeedsMaintenance(now) {
				view.Status = RouteDangerous
				break
			}
		}
	}
	return view, nil
}
