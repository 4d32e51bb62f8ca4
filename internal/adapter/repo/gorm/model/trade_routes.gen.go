package model

import "time"

const TableNameTradeRoute = "trade_routes"

type TradeRoute struct {
	ID                  int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name                string    `gorm:"column:name;not null" json:"name"`
	StartingPlanetID    int64     `gorm:"column:starting_planet_id;not null" json:"starting_planet_id"`
	DestinationPlanetID int64     `gorm:"column:destination_planet_id;not null" json:"destination_planet_id"`
	ResourceID          int64     `gorm:"column:resource_id;not null" json:"resource_id"`
	TravelTime          int32     `gorm:"column:travel_time;not null" json:"travel_time"`
	CreatedAt           time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (*TradeRoute) TableName() string {
	return TableNameTradeRoute
}
