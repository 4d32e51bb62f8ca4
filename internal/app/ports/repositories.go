package ports

import (
	"context"
	"time"

	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
	"galaxytrade/internal/domain/weather"
)

type PlanetRepository interface {
	Get(ctx context.Context, id int64) (economy.Planet, error)
	List(ctx context.Context) ([]economy.Planet, error)
}

type ResourceRepository interface {
	Get(ctx context.Context, id int64) (economy.Resource, error)
	List(ctx context.Context) ([]economy.Resource, error)
}

// InventoryRepository is the ledger's storage. The *ForUpdate methods hold an
// exclusive lock on the row until the surrounding transaction ends.
type InventoryRepository interface {
	Get(ctx context.Context, key economy.InventoryKey) (economy.Inventory, error)
	GetForUpdate(ctx context.Context, key economy.InventoryKey) (economy.Inventory, error)
	// GetOrCreateForUpdate inserts seed when no row exists for its key, then
	// locks and returns the stored row.
	GetOrCreateForUpdate(ctx context.Context, seed economy.Inventory) (economy.Inventory, error)
	Save(ctx context.Context, inv economy.Inventory) error
	ListByPlanet(ctx context.Context, planetID int64) ([]economy.Inventory, error)
	ListAll(ctx context.Context) ([]economy.Inventory, error)
}

type PriceHistoryRepository interface {
	Append(ctx context.Context, rows []economy.PriceSnapshot) error
	// ListRecent returns up to limit snapshots, oldest first.
	ListRecent(ctx context.Context, key economy.InventoryKey, limit int) ([]economy.PriceSnapshot, error)
	ListByResource(ctx context.Context, resourceID int64) ([]economy.PriceSnapshot, error)
}

type RouteRepository interface {
	Get(ctx context.Context, id int64) (trade.Route, error)
	List(ctx context.Context) ([]trade.Route, error)
	ExistsBetween(ctx context.Context, startPlanetID, destinationPlanetID int64) (bool, error)
	Create(ctx context.Context, route trade.Route) (trade.Route, error)
	Update(ctx context.Context, route trade.Route) error
}

type AgreementRepository interface {
	Get(ctx context.Context, id int64) (trade.Agreement, error)
	GetForUpdate(ctx context.Context, id int64) (trade.Agreement, error)
	// ListExecutable returns active agreements whose window contains now.
	ListExecutable(ctx context.Context, now time.Time) ([]trade.Agreement, error)
	RecordExecution(ctx context.Context, id int64, at time.Time) error
}

type StarshipRepository interface {
	Get(ctx context.Context, id int64) (fleet.Starship, error)
	GetForUpdate(ctx context.Context, id int64) (fleet.Starship, error)
	ListInTransit(ctx context.Context) ([]fleet.Starship, error)
	ListByRoute(ctx context.Context, routeID int64) ([]fleet.Starship, error)
	Save(ctx context.Context, ship fleet.Starship) error
}

type WeatherRepository interface {
	Create(ctx context.Context, event weather.Event) (weather.Event, error)
	ListActive(ctx context.Context, now time.Time) ([]weather.Event, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
}
