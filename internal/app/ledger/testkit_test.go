package ledger

import (
	"sync"
	"time"

	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/domain/economy"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type countingMetrics struct {
	mu        sync.Mutex
	transfers int
	conflicts int
}

func (m *countingMetrics) RecordTransfer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers++
}
func (m *countingMetrics) RecordAgreementExecuted()       {}
func (m *countingMetrics) RecordAgreementFailed(_ string) {}
func (m *countingMetrics) RecordShipDelayed()             {}
func (m *countingMetrics) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

type fixture struct {
	store   *memory.Store
	svc     Service
	metrics *countingMetrics
	ore     economy.Resource
	earth   economy.Planet
	mars    economy.Planet
}

func newFixture(opts ...memory.Option) fixture {
	store := memory.NewStore(opts...)
	metrics := &countingMetrics{}
	f := fixture{store: store, metrics: metrics}
	f.earth = store.SeedPlanet(economy.Planet{ID: 1, Name: "Earth"})
	f.mars = store.SeedPlanet(economy.Planet{ID: 2, Name: "Mars", Coordinates: economy.Coordinates{X: 30, Y: 40}})
	f.ore = store.SeedResource(economy.Resource{ID: 7, Name: "Iron Ore", BasePrice: 10, Rarity: economy.RarityCommon, Unit: economy.UnitTon})
	f.svc = Service{
		TxManager:   memory.NewTxManager(store),
		Planets:     memory.NewPlanetRepo(store),
		Resources:   memory.NewResourceRepo(store),
		Inventories: memory.NewInventoryRepo(store),
		History:     memory.NewPriceHistoryRepo(store),
		Metrics:     metrics,
		Now:         func() time.Time { return testNow },
	}
	return f
}

func (f fixture) key(planetID int64) economy.InventoryKey {
	return economy.InventoryKey{PlanetID: planetID, ResourceID: f.ore.ID}
}

func (f fixture) seed(planetID int64, qty, consumption float64) economy.Inventory {
	return f.store.SeedInventory(economy.Inventory{
		PlanetID:        planetID,
		ResourceID:      f.ore.ID,
		Quantity:        qty,
		CurrentPrice:    f.ore.BasePrice,
		DemandFactor:    1,
		ConsumptionRate: consumption,
		UpdatedAt:       testNow.Add(-time.Hour),
	})
}
