package weather

import (
	"time"

	"galaxytrade/internal/domain/economy"
)

// Rand is the uniform source the generator draws from.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type Generator struct {
	Rand Rand
}

// intBetween returns an integer in [lo, hi].
func (g Generator) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.Rand.IntN(hi-lo+1)
}

func (g Generator) floatBetween(lo, hi float64) float64 {
	return lo + (hi-lo)*g.Rand.Float64()
}

// Region picks a box anchored at a random point of the universe bounds and
// sized 10-30% of the universe extent on every axis.
func (g Generator) Region(bounds economy.Bounds) Region {
	start := economy.Coordinates{
		X: g.floatBetween(bounds.Min.X, bounds.Max.X),
		Y: g.floatBetween(bounds.Min.Y, bounds.Max.Y),
		Z: g.floatBetween(bounds.Min.Z, bounds.Max.Z),
	}
	size := float64(g.intBetween(10, 30)) / 100
	ext := bounds.Extent()
	end := economy.Coordinates{
		X: start.X + ext.X*size,
		Y: start.Y + ext.Y*size,
		Z: start.Z + ext.Z*size,
	}
	return Region{Start: start, End: end}
}

func (g Generator) Generate(planets []economy.Planet, now time.Time) (Event, error) {
	bounds, ok := economy.UniverseBounds(planets)
	if !ok {
		return Event{}, ErrEmptyUniverse
	}
	t := Types[g.Rand.IntN(len(Types))]
	s := Severities[g.Rand.IntN(len(Severities))]
	delay, err := DelayFactor(t, s)
	if err != nil {
		return Event{}, err
	}
	lo, hi, _ := s.DurationHours()
	hours := g.intBetween(lo, hi)
	return Event{
		Type:        t,
		Severity:    s,
		Region:      g.Region(bounds),
		StartTime:   now,
		EndTime:     now.Add(time.Duration(hours) * time.Hour),
		DelayFactor: delay,
	}, nil
}
