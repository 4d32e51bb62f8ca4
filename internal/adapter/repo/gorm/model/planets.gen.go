package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNamePlanet = "planets"

type Planet struct {
	ID          int64                     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name        string                    `gorm:"column:name;not null" json:"name"`
	Description string                    `gorm:"column:description" json:"description"`
	Coordinates datatypes.JSONType[Point] `gorm:"column:coordinates;type:jsonb;not null" json:"coordinates"`
	Color       string                    `gorm:"column:color" json:"color"`
	CreatedAt   time.Time                 `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time                 `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (*Planet) TableName() string {
	return TableNamePlanet
}
