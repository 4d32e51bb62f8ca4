package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameStarship = "starships"

type Starship struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name              string          `gorm:"column:name;not null" json:"name"`
	Description       string          `gorm:"column:description" json:"description"`
	CargoCapacity     decimal.Decimal `gorm:"column:cargo_capacity;type:numeric(14,4);not null" json:"cargo_capacity"`
	TradeRouteID      *int64          `gorm:"column:trade_route_id" json:"trade_route_id"`
	Status            string          `gorm:"column:status;not null" json:"status"`
	CurrentLocationID *int64          `gorm:"column:current_location_id" json:"current_location_id"`
	DestinationID     *int64          `gorm:"column:destination_id" json:"destination_id"`
	DepartureTime     *time.Time      `gorm:"column:departure_time" json:"departure_time"`
	ArrivalTime       *time.Time      `gorm:"column:arrival_time" json:"arrival_time"`
	MaintenanceDueAt  *time.Time      `gorm:"column:maintenance_due_at" json:"maintenance_due_at"`
	CreatedAt         time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (*Starship) TableName() string {
	return TableNameStarship
}
