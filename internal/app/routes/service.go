package routes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/trade"
)

type Service struct {
	TxManager ports.TxManager
	Routes    ports.RouteRepository
	Planets   ports.PlanetRepository
	Resources ports.ResourceRepository
}

type CreateRequest struct {
	Name                string `json:"name"`
	StartingPlanetID    int64  `json:"starting_planet_id"`
	DestinationPlanetID int64  `json:"destination_planet_id"`
	ResourceID          int64  `json:"resource_id"`
}

type UpdateRequest struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name,omitempty"`
	TravelTime *int    `json:"travel_time,omitempty"`
}

func (s Service) endpoints(ctx context.Context, startID, endID int64) (economy.Planet, economy.Planet, error) {
	start, err := s.Planets.Get(ctx, startID)
	if err != nil {
		return economy.Planet{}, economy.Planet{}, fmt.Errorf("%w: starting planet %d: %w", trade.ErrInvalidRoute, startID, err)
	}
	end, err := s.Planets.Get(ctx, endID)
	if err != nil {
		return economy.Planet{}, economy.Planet{}, fmt.Errorf("%w: destination planet %d: %w", trade.ErrInvalidRoute, endID, err)
	}
	return start, end, nil
}

// Create derives the travel time from the planets' distance. Only one route
// may exist per ordered pair of planets.
func (s Service) Create(ctx context.Context, req CreateRequest) (trade.Route, error) {
	route := trade.Route{
		Name:                strings.TrimSpace(req.Name),
		StartingPlanetID:    req.StartingPlanetID,
		DestinationPlanetID: req.DestinationPlanetID,
		ResourceID:          req.ResourceID,
	}
	if err := route.Validate(); err != nil {
		return trade.Route{}, err
	}
	start, end, err := s.endpoints(ctx, req.StartingPlanetID, req.DestinationPlanetID)
	if err != nil {
		return trade.Route{}, err
	}
	if _, err := s.Resources.Get(ctx, req.ResourceID); err != nil {
		return trade.Route{}, fmt.Errorf("resource %d: %w", req.ResourceID, err)
	}
	route.TravelTime = trade.TravelTime(start.Coordinates, end.Coordinates)
	if route.Name == "" {
		route.Name = fmt.Sprintf("%s - %s", start.Name, end.Name)
	}

	var out trade.Route
	err = s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		exists, err := s.Routes.ExistsBetween(txCtx, route.StartingPlanetID, route.DestinationPlanetID)
		if err != nil {
			return err
		}
		if exists {
			return trade.ErrDuplicateRoute
		}
		created, err := s.Routes.Create(txCtx, route)
		if errors.Is(err, ports.ErrConflict) {
			return trade.ErrDuplicateRoute
		}
		out = created
		return err
	})
	if err != nil {
		return trade.Route{}, err
	}
	return out, nil
}

// Update renames a route or overrides its travel time. An override must stay
// within ten percent of the geometric value.
func (s Service) Update(ctx context.Context, req UpdateRequest) (trade.Route, error) {
	route, err := s.Routes.Get(ctx, req.ID)
	if err != nil {
		return trade.Route{}, fmt.Errorf("route %d: %w", req.ID, err)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return trade.Route{}, trade.ErrInvalidRoute
		}
		route.Name = name
	}
	if req.TravelTime != nil {
		start, end, err := s.endpoints(ctx, route.StartingPlanetID, route.DestinationPlanetID)
		if err != nil {
			return trade.Route{}, err
		}
		if err := trade.ValidateTravelTime(*req.TravelTime, start.Coordinates, end.Coordinates); err != nil {
			return trade.Route{}, err
		}
		route.TravelTime = *req.TravelTime
	}
	if err := s.Routes.Update(ctx, route); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return trade.Route{}, trade.ErrDuplicateRoute
		}
		return trade.Route{}, err
	}
	return route, nil
}

func (s Service) Get(ctx context.Context, id int64) (trade.Route, error) {
	return s.Routes.Get(ctx, id)
}

func (s Service) List(ctx context.Context) ([]trade.Route, error) {
	return s.Routes.List(ctx)
}
