package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameResourceInventory = "resource_inventories"

type ResourceInventory struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	PlanetID        int64           `gorm:"column:planet_id;not null;uniqueIndex:resource_inventories_planet_resource_key,priority:1" json:"planet_id"`
	ResourceID      int64           `gorm:"column:resource_id;not null;uniqueIndex:resource_inventories_planet_resource_key,priority:2" json:"resource_id"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:numeric(18,4);not null" json:"quantity"`
	CurrentPrice    decimal.Decimal `gorm:"column:current_price;type:numeric(14,4);not null" json:"current_price"`
	DemandFactor    decimal.Decimal `gorm:"column:demand_factor;type:numeric(8,6);not null" json:"demand_factor"`
	ProductionRate  decimal.Decimal `gorm:"column:production_rate;type:numeric(14,4);not null" json:"production_rate"`
	ConsumptionRate decimal.Decimal `gorm:"column:consumption_rate;type:numeric(14,4);not null" json:"consumption_rate"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (*ResourceInventory) TableName() string {
	return TableNameResourceInventory
}
