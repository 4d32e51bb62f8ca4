package gormrepo

import (
	"galaxytrade/internal/adapter/repo/gorm/model"
	"galaxytrade/internal/domain/economy"
	"galaxytrade/internal/domain/fleet"
	"galaxytrade/internal/domain/trade"
	"galaxytrade/internal/domain/weather"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func flt(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toPoint(c economy.Coordinates) datatypes.JSONType[model.Point] {
	return datatypes.NewJSONType(model.Point{X: c.X, Y: c.Y, Z: c.Z})
}

func fromPoint(p datatypes.JSONType[model.Point]) economy.Coordinates {
	v := p.Data()
	return economy.Coordinates{X: v.X, Y: v.Y, Z: v.Z}
}

func planetFromModel(m model.Planet) economy.Planet {
	return economy.Planet{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Coordinates: fromPoint(m.Coordinates),
		Color:       m.Color,
	}
}

func resourceFromModel(m model.Resource) economy.Resource {
	return economy.Resource{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		BasePrice:     flt(m.BasePrice),
		Rarity:        economy.Rarity(m.Rarity),
		Unit:          economy.Unit(m.Unit),
		WeightPerUnit: flt(m.WeightPerUnit),
	}
}

func inventoryFromModel(m model.ResourceInventory) economy.Inventory {
	return economy.Inventory{
		ID:              m.ID,
		PlanetID:        m.PlanetID,
		ResourceID:      m.ResourceID,
		Quantity:        flt(m.Quantity),
		CurrentPrice:    flt(m.CurrentPrice),
		DemandFactor:    flt(m.DemandFactor),
		ProductionRate:  flt(m.ProductionRate),
		ConsumptionRate: flt(m.ConsumptionRate),
		UpdatedAt:       m.UpdatedAt,
	}
}

func inventoryToModel(inv economy.Inventory) model.ResourceInventory {
	return model.ResourceInventory{
		ID:              inv.ID,
		PlanetID:        inv.PlanetID,
		ResourceID:      inv.ResourceID,
		Quantity:        dec(inv.Quantity),
		CurrentPrice:    dec(inv.CurrentPrice),
		DemandFactor:    dec(inv.DemandFactor),
		ProductionRate:  dec(inv.ProductionRate),
		ConsumptionRate: dec(inv.ConsumptionRate),
		UpdatedAt:       inv.UpdatedAt,
	}
}

func snapshotFromModel(m model.ResourcePriceHistory) economy.PriceSnapshot {
	return economy.PriceSnapshot{
		ID:           m.ID,
		PlanetID:     m.PlanetID,
		ResourceID:   m.ResourceID,
		Price:        flt(m.Price),
		Quantity:     flt(m.Quantity),
		DemandFactor: flt(m.DemandFactor),
		RecordedAt:   m.RecordedAt,
	}
}

func routeFromModel(m model.TradeRoute) trade.Route {
	return trade.Route{
		ID:                  m.ID,
		Name:                m.Name,
		StartingPlanetID:    m.StartingPlanetID,
		DestinationPlanetID: m.DestinationPlanetID,
		ResourceID:          m.ResourceID,
		TravelTime:          int(m.TravelTime),
	}
}

func agreementFromModel(m model.TradeAgreement) trade.Agreement {
	return trade.Agreement{
		ID:                  m.ID,
		Name:                m.Name,
		SourcePlanetID:      m.SourcePlanetID,
		DestinationPlanetID: m.DestinationPlanetID,
		ResourceID:          m.ResourceID,
		QuantityPerCycle:    flt(m.QuantityPerCycle),
		PricePerUnit:        flt(m.PricePerUnit),
		CyclePeriod:         trade.CyclePeriod(m.CyclePeriod),
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Terms:               m.Terms,
		Status:              trade.AgreementStatus(m.Status),
		LastExecution:       m.LastExecution,
	}
}

func starshipFromModel(m model.Starship) fleet.Starship {
	return fleet.Starship{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		CargoCapacity:     flt(m.CargoCapacity),
		TradeRouteID:      m.TradeRouteID,
		Status:            fleet.Status(m.Status),
		CurrentLocationID: m.CurrentLocationID,
		DestinationID:     m.DestinationID,
		DepartureTime:     m.DepartureTime,
		ArrivalTime:       m.ArrivalTime,
		MaintenanceDueAt:  m.MaintenanceDueAt,
	}
}

func weatherFromModel(m model.SpaceWeather) weather.Event {
	return weather.Event{
		ID:       m.ID,
		Name:     m.Name,
		Type:     weather.Type(m.Type),
		Severity: weather.Severity(m.Severity),
		Region: weather.Region{
			Start: fromPoint(m.AffectedRegionStart),
			End:   fromPoint(m.AffectedRegionEnd),
		},
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		DelayFactor: flt(m.DelayFactor),
	}
}

func weatherToModel(e weather.Event) model.SpaceWeather {
	return model.SpaceWeather{
		ID:                  e.ID,
		Name:                e.Name,
		Type:                string(e.Type),
		Severity:            string(e.Severity),
		AffectedRegionStart: toPoint(e.Region.Start),
		AffectedRegionEnd:   toPoint(e.Region.End),
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		DelayFactor:         dec(e.DelayFactor),
	}
}
