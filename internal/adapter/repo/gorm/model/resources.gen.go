package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const TableNameResource = "resources"

type Resource struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Description   string          `gorm:"column:description" json:"description"`
	BasePrice     decimal.Decimal `gorm:"column:base_price;type:numeric(14,4);not null" json:"base_price"`
	Rarity        string          `gorm:"column:rarity;not null" json:"rarity"`
	Unit          string          `gorm:"column:unit;not null" json:"unit"`
	WeightPerUnit decimal.Decimal `gorm:"column:weight_per_unit;type:numeric(14,4);not null" json:"weight_per_unit"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (*Resource) TableName() string {
	return TableNameResource
}
