package fleet

import (
	"errors"
	"math"
	"time"

	"galaxytrade/internal/domain/trade"
)

var (
	ErrInvalidTransition = errors.New("invalid starship transition")
	ErrInvariantBroken   = errors.New("starship state invariant broken")
)

type Status string

const (
	StatusIdle        Status = "idle"
	StatusInTransit   Status = "in_transit"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusInTransit, StatusMaintenance:
		return true
	default:
		return false
	}
}

// MaintenanceInterval is how far ahead the next service is scheduled, in
// calendar months.
const MaintenanceInterval = 3

// delayEpsilon keeps floating noise on a clear-sky factor from stretching
// arrivals.
const delayEpsilon = 1e-9

type Starship struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	CargoCapacity     float64    `json:"cargo_capacity"`
	TradeRouteID      *int64     `json:"trade_route_id,omitempty"`
	Status            Status     `json:"status"`
	CurrentLocationID *int64     `json:"current_location_id,omitempty"`
	DestinationID     *int64     `json:"destination_id,omitempty"`
	DepartureTime     *time.Time `json:"departure_time,omitempty"`
	ArrivalTime       *time.Time `json:"arrival_time,omitempty"`
	MaintenanceDueAt  *time.Time `json:"maintenance_due_at,omitempty"`
}

// CheckInvariant verifies the ship is in exactly one of its three shapes:
// idle with no transit fields, in transit with route and both times and a
// destination, or in maintenance with no route.
func (s Starship) CheckInvariant() error {
	noTransit := s.DepartureTime == nil && s.ArrivalTime == nil && s.DestinationID == nil
	switch s.Status {
	case StatusIdle:
		if !noTransit {
			return ErrInvariantBroken
		}
	case StatusInTransit:
		if s.TradeRouteID == nil || s.DepartureTime == nil || s.ArrivalTime == nil || s.DestinationID == nil {
			return ErrInvariantBroken
		}
	case StatusMaintenance:
		if s.TradeRouteID != nil || !noTransit {
			return ErrInvariantBroken
		}
	default:
		return ErrInvariantBroken
	}
	return nil
}

// Depart puts an idle ship on the route. The trip lasts
// ceil(travelTime * delay) units and the ship is placed at the route start.
func (s Starship) Depart(route trade.Route, delay float64, unit time.Duration, now time.Time) (Starship, error) {
	if s.Status != StatusIdle {
		return s, ErrInvalidTransition
	}
	if route.ID == 0 {
		return s, ErrInvalidTransition
	}
	if delay < 1.0 || math.IsNaN(delay) {
		delay = 1.0
	}
	total := math.Ceil(float64(route.TravelTime) * delay)
	departure := now
	arrival := now.Add(time.Duration(total) * unit)
	routeID := route.ID
	start := route.StartingPlanetID
	dest := route.DestinationPlanetID

	s.Status = StatusInTransit
	s.TradeRouteID = &routeID
	s.DepartureTime = &departure
	s.ArrivalTime = &arrival
	s.CurrentLocationID = &start
	s.DestinationID = &dest
	return s, nil
}

// Arrive ends a transit. The caller decides where the ship actually is;
// a nil location means the planned destination was reached.
func (s Starship) Arrive(location *int64) (Starship, error) {
	if s.Status != StatusInTransit {
		return s, ErrInvalidTransition
	}
	loc := s.DestinationID
	if location != nil {
		v := *location
		loc = &v
	}
	s.Status = StatusIdle
	s.CurrentLocationID = loc
	s.DepartureTime = nil
	s.ArrivalTime = nil
	s.DestinationID = nil
	return s, nil
}

// EnterMaintenance is allowed from any state. It drops the route and any
// transit and schedules the next service.
func (s Starship) EnterMaintenance(now time.Time) Starship {
	due := now.AddDate(0, MaintenanceInterval, 0)
	s.Status = StatusMaintenance
	s.TradeRouteID = nil
	s.DepartureTime = nil
	s.ArrivalTime = nil
	s.DestinationID = nil
	s.MaintenanceDueAt = &due
	return s
}

func (s Starship) ReturnToService() (Starship, error) {
	if s.Status != StatusMaintenance {
		return s, ErrInvalidTransition
	}
	s.Status = StatusIdle
	return s, nil
}

// AssignRoute attaches a route to a ship that is not travelling.
func (s Starship) AssignRoute(route trade.Route) (Starship, error) {
	if s.Status != StatusIdle {
		return s, ErrInvalidTransition
	}
	id := route.ID
	start := route.StartingPlanetID
	s.TradeRouteID = &id
	if s.CurrentLocationID == nil {
		s.CurrentLocationID = &start
	}
	return s, nil
}

// Progress is the percentage of the current trip completed at now.
func (s Starship) Progress(now time.Time) float64 {
	if s.Status != StatusInTransit || s.DepartureTime == nil || s.ArrivalTime == nil {
		return 0
	}
	if now.After(*s.ArrivalTime) {
		return 100
	}
	total := s.ArrivalTime.Sub(*s.DepartureTime)
	if total <= 0 {
		return 100
	}
	pct := 100 * float64(now.Sub(*s.DepartureTime)) / float64(total)
	return math.Max(0, math.Min(100, pct))
}

func (s Starship) NeedsMaintenance(now time.Time) bool {
	return s.MaintenanceDueAt != nil && !s.MaintenanceDueAt.After(now)
}

// ApplyWeatherDelay stretches the remaining trip by delay, rounded up to
// whole travel units, the same unit Depart scales route travel time by.
// Repeated calls compound on the remaining time, and the arrival is never
// moved earlier. changed is false when nothing moved.
func (s Starship) ApplyWeatherDelay(delay float64, unit time.Duration, now time.Time) (Starship, bool) {
	if s.Status != StatusInTransit || s.ArrivalTime == nil {
		return s, false
	}
	if !(delay > 1.0+delayEpsilon) {
		return s, false
	}
	remaining := s.ArrivalTime.Sub(now)
	if remaining <= 0 {
		return s, false
	}
	if unit <= 0 {
		unit = time.Hour
	}
	steps := math.Ceil(float64(remaining) / float64(unit) * delay)
	arrival := now.Add(time.Duration(steps) * unit)
	if !arrival.After(*s.ArrivalTime) {
		return s, false
	}
	s.ArrivalTime = &arrival
	return s, true
}
