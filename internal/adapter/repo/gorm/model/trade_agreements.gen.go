package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameTradeAgreement = "trade_agreements"

type TradeAgreement struct {
	ID                  int64           `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name                string          `gorm:"column:name;not null" json:"name"`
	SourcePlanetID      int64           `gorm:"column:source_planet_id;not null" json:"source_planet_id"`
	DestinationPlanetID int64           `gorm:"column:destination_planet_id;not null" json:"destination_planet_id"`
	ResourceID          int64           `gorm:"column:resource_id;not null" json:"resource_id"`
	QuantityPerCycle    decimal.Decimal `gorm:"column:quantity_per_cycle;type:numeric(18,4);not null" json:"quantity_per_cycle"`
	PricePerUnit        decimal.Decimal `gorm:"column:price_per_unit;type:numeric(14,4);not null" json:"price_per_unit"`
	CyclePeriod         string          `gorm:"column:cycle_period;not null" json:"cycle_period"`
	StartDate           time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	EndDate             *time.Time      `gorm:"column:end_date" json:"end_date"`
	Terms               string          `gorm:"column:terms" json:"terms"`
	Status              string          `gorm:"column:status;not null" json:"status"`
	LastExecution       *time.Time      `gorm:"column:last_execution" json:"last_execution"`
	CreatedAt           time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (*TradeAgreement) TableName() string {
	return TableNameTradeAgreement
}
