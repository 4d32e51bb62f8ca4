// Package bootstrap assembles the use cases over either storage backend so
// the server and the one-shot job runner share one wiring.
package bootstrap

import (
	"log/slog"
	"time"

	metricsinmem "galaxytrade/internal/adapter/metrics/inmemory"
	gormrepo "galaxytrade/internal/adapter/repo/gorm"
	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/app/agreement"
	"galaxytrade/internal/app/ledger"
	"galaxytrade/internal/app/ports"
	"galaxytrade/internal/app/routes"
	"galaxytrade/internal/app/transit"
	"galaxytrade/internal/app/weather"

	"gorm.io/gorm"
)

type Repos struct {
	TxManager   ports.TxManager
	Planets     ports.PlanetRepository
	Resources   ports.ResourceRepository
	Inventories ports.InventoryRepository
	History     ports.PriceHistoryRepository
	Routes      ports.RouteRepository
	Agreements  ports.AgreementRepository
	Starships   ports.StarshipRepository
	Weather     ports.WeatherRepository
}

func MemoryRepos(store *memory.Store) Repos {
	return Repos{
		TxManager:   memory.NewTxManager(store),
		Planets:     memory.NewPlanetRepo(store),
		Resources:   memory.NewResourceRepo(store),
		Inventories: memory.NewInventoryRepo(store),
		History:     memory.NewPriceHistoryRepo(store),
		Routes:      memory.NewRouteRepo(store),
		Agreements:  memory.NewAgreementRepo(store),
		Starships:   memory.NewStarshipRepo(store),
		Weather:     memory.NewWeatherRepo(store),
	}
}

func PostgresRepos(db *gorm.DB, lockTimeout time.Duration) Repos {
	return Repos{
		TxManager:   gormrepo.NewTxManager(db).WithLockTimeout(lockTimeout),
		Planets:     gormrepo.NewPlanetRepo(db),
		Resources:   gormrepo.NewResourceRepo(db),
		Inventories: gormrepo.NewInventoryRepo(db),
		History:     gormrepo.NewPriceHistoryRepo(db),
		Routes:      gormrepo.NewRouteRepo(db),
		Agreements:  gormrepo.NewAgreementRepo(db),
		Starships:   gormrepo.NewStarshipRepo(db),
		Weather:     gormrepo.NewWeatherRepo(db),
	}
}

type Options struct {
	Workers     int
	SpawnChance float64
	TransitUnit time.Duration
	Rand        ports.RandomSource
	Logger      *slog.Logger
	Now         func() time.Time
}

type Services struct {
	Ledger     ledger.Service
	Agreements agreement.Service
	Transit    transit.Service
	Weather    weather.Service
	WeatherJob weather.Job
	Routes     routes.Service
	Metrics    *metricsinmem.Recorder
}

func NewServices(r Repos, opts Options) Services {
	base := opts.Logger
	if base == nil {
		base = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	metrics := metricsinmem.NewRecorder()

	led := ledger.Service{
		TxManager:   r.TxManager,
		Planets:     r.Planets,
		Resources:   r.Resources,
		Inventories: r.Inventories,
		History:     r.History,
		Metrics:     metrics,
		Logger:      base.With("component", "ledger"),
		Now:         now,
	}
	wx := weather.Service{
		Events:    r.Weather,
		Planets:   r.Planets,
		Routes:    r.Routes,
		Starships: r.Starships,
		Rand:      opts.Rand,
		Logger:    base.With("component", "weather"),
		Now:       now,
	}
	tr := transit.Service{
		TxManager: r.TxManager,
		Starships: r.Starships,
		Routes:    r.Routes,
		Weather:   wx,
		Metrics:   metrics,
		Logger:    base.With("component", "transit"),
		Unit:      opts.TransitUnit,
		Now:       now,
	}
	return Services{
		Ledger: led,
		Agreements: agreement.Service{
			TxManager:  r.TxManager,
			Agreements: r.Agreements,
			Ledger:     led,
			Metrics:    metrics,
			Logger:     base.With("component", "agreements"),
			Workers:    opts.Workers,
			Now:        now,
		},
		Transit: tr,
		Weather: wx,
		WeatherJob: weather.Job{
			Weather:     wx,
			Transit:     tr,
			SpawnChance: opts.SpawnChance,
			Logger:      base.With("component", "weather_job"),
		},
		Routes: routes.Service{
			TxManager: r.TxManager,
			Routes:    r.Routes,
			Planets:   r.Planets,
			Resources: r.Resources,
		},
		Metrics: metrics,
	}
}
