package weather

import (
	"math"
	"time"

	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/trade"
)

type Type string

const (
	TypeSolarFlare     Type = "solar_flare"
	TypeAsteroidField  Type = "asteroid_field"
	TypeCosmicStorm    Type = "cosmic_storm"
	TypeQuantumAnomaly Type = "quantum_anomaly"
)

// Types lists every weather type in a stable order.
var Types = []Type{TypeSolarFlare, TypeAsteroidField, TypeCosmicStorm, TypeQuantumAnomaly}

type DelayRange struct {
	Min float64
	Max float64
}

func (t Type) DelayRange() (DelayRange, bool) {
	switch t {
	case TypeSolarFlare:
		return DelayRange{Min: 1.2, Max: 1.5}, true
	case TypeAsteroidField:
		return DelayRange{Min: 1.3, Max: 2.0}, true
	case TypeCosmicStorm:
		return DelayRange{Min: 1.4, Max: 2.5}, true
	case TypeQuantumAnomaly:
		return DelayRange{Min: 1.5, Max: 3.0}, true
	default:
		return DelayRange{}, false
	}
}

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityExtreme  Severity = "extreme"
)

var Severities = []Severity{SeverityMinor, SeverityModerate, SeveritySevere, SeverityExtreme}

// Fraction is how far into its type's delay range a severity lands.
func (s Severity) Fraction() (float64, bool) {
	switch s {
	case SeverityMinor:
		return 0.25, true
	case SeverityModerate:
		return 0.5, true
	case SeveritySevere:
		return 0.75, true
	case SeverityExtreme:
		return 1.0, true
	default:
		return 0, false
	}
}

// DurationHours is the inclusive band of event lengths, in hours.
func (s Severity) DurationHours() (int, int, bool) {
	switch s {
	case SeverityMinor:
		return 1, 6, true
	case SeverityModerate:
		return 4, 12, true
	case SeveritySevere:
		return 8, 18, true
	case SeverityExtreme:
		return 12, 24, true
	default:
		return 0, 0, false
	}
}

func DelayFactor(t Type, s Severity) (float64, error) {
	r, ok := t.DelayRange()
	if !ok {
		return 0, ErrUnknownType
	}
	f, ok := s.Fraction()
	if !ok {
		return 0, ErrUnknownSeverity
	}
	return r.Min + (r.Max-r.Min)*f, nil
}

// Region is an axis-aligned box given by any two opposite corners.
type Region struct {
	Start economy.Coordinates `json:"start"`
	End   economy.Coordinates `json:"end"`
}

func (r Region) Normalized() (economy.Coordinates, economy.Coordinates) {
	lo := economy.Coordinates{
		X: math.Min(r.Start.X, r.End.X),
		Y: math.Min(r.Start.Y, r.End.Y),
		Z: math.Min(r.Start.Z, r.End.Z),
	}
	hi := economy.Coordinates{
		X: math.Max(r.Start.X, r.End.X),
		Y: math.Max(r.Start.Y, r.End.Y),
		Z: math.Max(r.Start.Z, r.End.Z),
	}
	return lo, hi
}

// Contains is inclusive on all six faces.
func (r Region) Contains(p economy.Coordinates) bool {
	lo, hi := r.Normalized()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	Severity    Severity  `json:"severity"`
	Region      Region    `json:"affected_region"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DelayFactor float64   `json:"delay_factor"`
}

func (e Event) Validate() error {
	if _, ok := e.Type.DelayRange(); !ok {
		return ErrUnknownType
	}
	if _, ok := e.Severity.Fraction(); !ok {
		return ErrUnknownSeverity
	}
	if !e.EndTime.After(e.StartTime) {
		return ErrInvalidWindow
	}
	if e.DelayFactor < 1.0 || math.IsNaN(e.DelayFactor) {
		return ErrInvalidDelay
	}
	return nil
}

func (e Event) ActiveAt(now time.Time) bool {
	return !e.StartTime.After(now) && e.EndTime.After(now)
}

func (e Event) Expired(now time.Time) bool {
	return !e.EndTime.After(now)
}

// IsRouteAffected reports whether either endpoint of the route lies inside the
// event's region. The segment between them is not tested.
func IsRouteAffected(e Event, p trade.Path) bool {
	return e.Region.Contains(p.Start) || e.Region.Contains(p.End)
}

// ActiveDelayFactor is the largest delay among events active at now that
// affect the route, never below 1.0. Overlapping events do not compound.
func ActiveDelayFactor(events []Event, p trade.Path, now time.Time) float64 {
	factor := 1.0
	for _, e := range events {
		if !e.ActiveAt(now) || !IsRouteAffected(e, p) {
			continue
		}
		factor = math.Max(factor, e.DelayFactor)
	}
	return factor
}
