package trade

import (
	"math"

	"galaxytrade/internal/domain/economy"
)

type Route struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	StartingPlanetID    int64  `json:"starting_planet_id"`
	DestinationPlanetID int64  `json:"destination_planet_id"`
	ResourceID          int64  `json:"resource_id"`
	TravelTime          int    `json:"travel_time"`
}

// Path is a route resolved to the coordinates of its two endpoints.
type Path struct {
	RouteID int64               `json:"route_id"`
	Start   economy.Coordinates `json:"start"`
	End     economy.Coordinates `json:"end"`
}

func NewPath(route Route, start, end economy.Planet) Path {
	return Path{RouteID: route.ID, Start: start.Coordinates, End: end.Coordinates}
}

// TravelTime is the Euclidean distance between the planets, rounded up to a
// whole time unit.
func TravelTime(start, end economy.Coordinates) int {
	return int(math.Ceil(economy.Distance(start, end)))
}

// TravelTimeBounds is the accepted window for an edited travel time: ten
// percent either side of the geometric value.
func TravelTimeBounds(start, end economy.Coordinates) (int, int) {
	calc := float64(TravelTime(start, end))
	return int(math.Floor(calc * 0.9)), int(math.Ceil(calc * 1.1))
}

func ValidateTravelTime(given int, start, end economy.Coordinates) error {
	if given < 1 {
		return ErrInvalidTravelTime
	}
	lo, hi := TravelTimeBounds(start, end)
	if given < lo || given > hi {
		return ErrInvalidTravelTime
	}
	return nil
}

func (r Route) Validate() error {
	if r.StartingPlanetID == 0 || r.DestinationPlanetID == 0 {
		return ErrInvalidRoute
	}
	if r.StartingPlanetID == r.DestinationPlanetID {
		return ErrInvalidRoute
	}
	return nil
}
