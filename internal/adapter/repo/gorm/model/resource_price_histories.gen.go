package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameResourcePriceHistory = "resource_price_histories"

type ResourcePriceHistory struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	PlanetID     int64           `gorm:"column:planet_id;not null" json:"planet_id"`
	ResourceID   int64           `gorm:"column:resource_id;not null" json:"resource_id"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(14,4);not null" json:"price"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(18,4);not null" json:"quantity"`
	DemandFactor decimal.Decimal `gorm:"column:demand_factor;type:numeric(8,6);not null" json:"demand_factor"`
	RecordedAt   time.Time       `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

func (*ResourcePriceHistory) TableName() string {
	return TableNameResourcePriceHistory
}
