package transit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
)

var ErrNoRoute = errors.New("starship has no trade route")

// DelayOracle answers the current weather delay for a route.
type DelayOracle interface {
	DelayFactor(ctx context.Context, route trade.Route, now time.Time) (float64, error)
}

type Service struct {
	TxManager ports.TxManager
	Starships ports.StarshipRepository
	Routes    ports.RouteRepository
	Weather   DelayOracle
	Metrics   ports.ExecutionMetrics
	Logger    *slog.Logger
	// Unit is the length of one route travel-time step. Zero means one hour.
	Unit time.Duration
	Now  func() time.Time
}

type ProgressView struct {
	Starship         fleet.Starship `json:"starship"`
	Percent          float64        `json:"progress"`
	NeedsMaintenance bool           `json:"needs_maintenance"`
}

type Adjustment struct {
	StarshipID      int64     `json:"starship_id"`
	RouteID         int64     `json:"route_id"`
	DelayFactor     float64   `json:"delay_factor"`
	PreviousArrival time.Time `json:"previous_arrival"`
	Arrival         time.Time `json:"arrival"`
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default().With("component", "transit")
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

func (s Service) unit() time.Duration {
	if s.Unit > 0 {
		return s.Unit
	}
	return time.Hour
}

// mutate locks the ship, applies fn and saves the result. fn receives the
// transaction context and must use it for any further reads.
func (s Service) mutate(ctx context.Context, id int64, fn func(context.Context, fleet.Starship) (fleet.Starship, error)) (fleet.Starship, error) {
	var out fleet.Starship
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		ship, err := s.Starships.GetForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("starship %d: %w", id, err)
		}
		next, err := fn(txCtx, ship)
		if err != nil {
			return err
		}
		if err := next.CheckInvariant(); err != nil {
			return err
		}
		if err := s.Starships.Save(txCtx, next); err != nil {
			return fmt.Errorf("save starship: %w", err)
		}
		out = next
		return nil
	})
	return out, err
}

// Depart sends an idle ship along routeID, or along its assigned route when
// routeID is nil. The trip is stretched by the weather active on the route.
func (s Service) Depart(ctx context.Context, shipID int64, routeID *int64, now time.Time) (fleet.Starship, error) {
	now = s.now(now)
	return s.mutate(ctx, shipID, func(txCtx context.Context, ship fleet.Starship) (fleet.Starship, error) {
		if ship.Status != fleet.StatusIdle {
			return ship, fleet.ErrInvalidTransition
		}
		id := routeID
		if id == nil {
			id = ship.TradeRouteID
		}
		if id == nil {
			return ship, fmt.Errorf("%w: %w", fleet.ErrInvalidTransition, ErrNoRoute)
		}
		route, err := s.Routes.Get(txCtx, *id)
		if err != nil {
			return ship, fmt.Errorf("route %d: %w", *id, err)
		}
		delay := 1.0
		if s.Weather != nil {
			if delay, err = s.Weather.DelayFactor(txCtx, route, now); err != nil {
				return ship, err
			}
		}
		next, err := ship.Depart(route, delay, s.unit(), now)
		if err != nil {
			return ship, err
		}
		s.logger().Info("starship departed",
			"starship_id", ship.ID,
			"route_id", route.ID,
			"delay_factor", delay,
			"arrival", next.ArrivalTime,
		)
		return next, nil
	})
}

// Arrive ends the current trip. locationID nil means the ship reached its
// planned destination.
func (s Service) Arrive(ctx context.Context, shipID int64, locationID *int64) (fleet.Starship, error) {
	return s.mutate(ctx, shipID, func(_ context.Context, ship fleet.Starship) (fleet.Starship, error) {
		return ship.Arrive(locationID)
	})
}

func (s Service) SendToMaintenance(ctx context.Context, shipID int64, now time.Time) (fleet.Starship, error) {
	now = s.now(now)
	return s.mutate(ctx, shipID, func(_ context.Context, ship fleet.Starship) (fleet.Starship, error) {
		return ship.EnterMaintenance(now), nil
	})
}

func (s Service) ReturnToService(ctx context.Context, shipID int64) (fleet.Starship, error) {
	return s.mutate(ctx, shipID, func(_ context.Context, ship fleet.Starship) (fleet.Starship, error) {
		return ship.ReturnToService()
	})
}

func (s Service) AssignRoute(ctx context.Context, shipID, routeID int64) (fleet.Starship, error) {
	route, err := s.Routes.Get(ctx, routeID)
	if err != nil {
		return fleet.Starship{}, fmt.Errorf("route %d: %w", routeID, err)
	}
	return s.mutate(ctx, shipID, func(_ context.Context, ship fleet.Starship) (fleet.Starship, error) {
		return ship.AssignRoute(route)
	})
}

func (s Service) Progress(ctx context.Context, shipID int64, now time.Time) (ProgressView, error) {
	now = s.now(now)
	ship, err := s.Starships.Get(ctx, shipID)
	if err != nil {
		return ProgressView{}, fmt.Errorf("starship %d: %w", shipID, err)
	}
	return ProgressView{
		Starship:         ship,
		Percent:          ship.Progress(now),
		NeedsMaintenance: ship.NeedsMaintenance(now),
	}, nil
}

// ApplyWeatherDelays stretches the remaining trip of every ship in transit
// whose route is under active weather. Each ship is updated in its own
// transaction; a ship that fails is logged and the sweep moves on.
func (s Service) ApplyWeatherDelays(ctx context.Context, now time.Time) ([]Adjustment, error) {
	now = s.now(now)
	if s.Weather == nil {
		return nil, nil
	}
	ships, err := s.Starships.ListInTransit(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ships in transit: %w", err)
	}

	delays := map[int64]float64{}
	out := []Adjustment{}
	for _, ship := range ships {
		if ship.TradeRouteID == nil {
			continue
		}
		routeID := *ship.TradeRouteID
		delay, ok := delays[routeID]
		if !ok {
			route, err := s.Routes.Get(ctx, routeID)
			if err != nil {
				s.logger().Warn("weather delay skipped", "starship_id", ship.ID, "route_id", routeID, "err", err)
				continue
			}
			if delay, err = s.Weather.DelayFactor(ctx, route, now); err != nil {
				s.logger().Warn("weather delay skipped", "starship_id", ship.ID, "route_id", routeID, "err", err)
				continue
			}
			delays[routeID] = delay
		}
		if delay <= 1.0 {
			continue
		}

		var adj *Adjustment
		_, err := s.mutate(ctx, ship.ID, func(_ context.Context, current fleet.Starship) (fleet.Starship, error) {
			if current.ArrivalTime == nil {
				return current, nil
			}
			previous := *current.ArrivalTime
			next, changed := current.ApplyWeatherDelay(delay, s.unit(), now)
			if changed {
				adj = &Adjustment{
					StarshipID:      current.ID,
					RouteID:         routeID,
					DelayFactor:     delay,
					PreviousArrival: previous,
					Arrival:         *next.ArrivalTime,
				}
			}
			return next, nil
		})
		if err != nil {
			s.logger().Error("weather delay failed", "starship_id", ship.ID, "err", err)
			continue
		}
		if adj == nil {
			continue
		}
		out = append(out, *adj)
		if s.Metrics != nil {
			s.Metrics.RecordShipDelayed()
		}
		s.logger().Info("starship delayed by weather",
			"starship_id", adj.StarshipID,
			"route_id", adj.RouteID,
			"delay_factor", adj.DelayFactor,
			"arrival", adj.Arrival,
		)
	}
	return out, nil
}
