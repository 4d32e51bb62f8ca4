package weather

import (
	"context"
	"log/slog"
	"time"

	"galaxytrade/internal/app/transit"
	spaceweather "galaxytrade/internal/domain/weather"
)

const DefaultSpawnChance = 0.2

type Delayer interface {
	ApplyWeatherDelays(ctx context.Context, now time.Time) ([]transit.Adjustment, error)
}

// Job is the periodic weather pass: stretch trips under active weather, drop
// expired events, then maybe spawn a new one. Every step is safe to re-run.
type Job struct {
	Weather Service
	Transit Delayer
	// SpawnChance is the probability of a new event per run.
	SpawnChance float64
	Logger      *slog.Logger
}

type JobResult struct {
	Delayed []transit.Adjustment `json:"delayed"`
	Pruned  int64                `json:"pruned"`
	Spawned *spaceweather.Event  `json:"spawned,omitempty"`
}

func (j Job) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default().With("component", "weather_job")
}

func (j Job) Run(ctx context.Context, now time.Time) (JobResult, error) {
	now = j.Weather.now(now)
	var out JobResult

	if j.Transit != nil {
		delayed, err := j.Transit.ApplyWeatherDelays(ctx, now)
		if err != nil {
			return out, err
		}
		out.Delayed = delayed
	}

	pruned, err := j.Weather.PruneExpired(ctx, now)
	if err != nil {
		return out, err
	}
	out.Pruned = pruned

	if j.Weather.Rand != nil && j.Weather.Rand.Float64() < j.SpawnChance {
		event, err := j.Weather.Generate(ctx, now)
		if err != nil {
			return out, err
		}
		out.Spawned = &event
	}
	j.logger().Info("weather pass finished",
		"delayed", len(out.Delayed),
		"pruned", out.Pruned,
		"spawned", out.Spawned != nil,
	)
	return out, nil
}
