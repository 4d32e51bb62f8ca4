package bootstrap

import (
	"time"

	"galaxytrade/internal/adapter/repo/memory"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
)

// SeedDemo fills an empty memory store with a small universe: four planets,
// three resources, two routes, two daily agreements and two idle ships.
func SeedDemo(store *memory.Store, now time.Time) {
	earth := store.SeedPlanet(economy.Planet{Name: "Earth", Coordinates: economy.Coordinates{}, Color: "#2e86de"})
	mars := store.SeedPlanet(economy.Planet{Name: "Mars", Coordinates: economy.Coordinates{X: 30, Y: 40}, Color: "#c0392b"})
	jupiter := store.SeedPlanet(economy.Planet{Name: "Jupiter", Coordinates: economy.Coordinates{X: 120, Y: -50, Z: 20}, Color: "#e67e22"})
	store.SeedPlanet(economy.Planet{Name: "Titan", Coordinates: economy.Coordinates{X: 130, Y: -40, Z: 25}, Color: "#f1c40f"})

	ore := store.SeedResource(economy.Resource{Name: "Iron Ore", BasePrice: 10, Rarity: economy.RarityCommon, Unit: economy.UnitTon, WeightPerUnit: 1000})
	helium := store.SeedResource(economy.Resource{Name: "Helium-3", BasePrice: 40, Rarity: economy.RarityRare, Unit: economy.UnitLiter, WeightPerUnit: 0.1})
	water := store.SeedResource(economy.Resource{Name: "Water", BasePrice: 2, Rarity: economy.RarityCommon, Unit: economy.UnitLiter, WeightPerUnit: 1})

	stock := func(p economy.Planet, r economy.Resource, qty, prod, cons float64) {
		inv := economy.NewInventory(economy.InventoryKey{PlanetID: p.ID, ResourceID: r.ID}, r.BasePrice, now)
		inv.Quantity = qty
		inv.ProductionRate = prod
		inv.ConsumptionRate = cons
		store.SeedInventory(economy.Reprice(inv, r, now))
	}
	stock(earth, ore, 500, 20, 5)
	stock(earth, water, 2000, 50, 40)
	stock(mars, ore, 50, 0, 15)
	stock(mars, water, 100, 5, 30)
	stock(jupiter, helium, 800, 40, 2)
	stock(earth, helium, 20, 0, 10)

	oreRoute := store.SeedRoute(trade.Route{
		Name:                earth.Name + " - " + mars.Name,
		StartingPlanetID:    earth.ID,
		DestinationPlanetID: mars.ID,
		ResourceID:          ore.ID,
		TravelTime:          trade.TravelTime(earth.Coordinates, mars.Coordinates),
	})
	heliumRoute := store.SeedRoute(trade.Route{
		Name:                jupiter.Name + " - " + earth.Name,
		StartingPlanetID:    jupiter.ID,
		DestinationPlanetID: earth.ID,
		ResourceID:          helium.ID,
		TravelTime:          trade.TravelTime(jupiter.Coordinates, earth.Coordinates),
	})

	start := now.Add(-time.Hour)
	store.SeedAgreement(trade.Agreement{
		Name:                "Martian ore supply",
		SourcePlanetID:      earth.ID,
		DestinationPlanetID: mars.ID,
		ResourceID:          ore.ID,
		QuantityPerCycle:    25,
		PricePerUnit:        11,
		CyclePeriod:         trade.CycleDaily,
		StartDate:           start,
		Status:              trade.AgreementActive,
	})
	store.SeedAgreement(trade.Agreement{
		Name:                "Helium import",
		SourcePlanetID:      jupiter.ID,
		DestinationPlanetID: earth.ID,
		ResourceID:          helium.ID,
		QuantityPerCycle:    10,
		PricePerUnit:        45,
		CyclePeriod:         trade.CycleWeekly,
		StartDate:           start,
		Status:              trade.AgreementActive,
	})

	due := now.Add(30 * 24 * time.Hour)
	for _, s := range []struct {
		name  string
		cargo float64
		route trade.Route
	}{
		{"Nostromo", 500, oreRoute},
		{"Rocinante", 120, heliumRoute},
	} {
		loc := s.route.StartingPlanetID
		routeID := s.route.ID
		store.SeedStarship(fleet.Starship{
			Name:              s.name,
			CargoCapacity:     s.cargo,
			Status:            fleet.StatusIdle,
			TradeRouteID:      &routeID,
			CurrentLocationID: &loc,
			MaintenanceDueAt:  &due,
		})
	}
}
