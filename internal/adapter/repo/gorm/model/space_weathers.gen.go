package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const TableNameSpaceWeather = "space_weathers"

type SpaceWeather struct {
	ID                  int64                     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name                string                    `gorm:"column:name;not null" json:"name"`
	Type                string                    `gorm:"column:type;not null" json:"type"`
	Severity            string                    `gorm:"column:severity;not null" json:"severity"`
	AffectedRegionStart datatypes.JSONType[Point] `gorm:"column:affected_region_start;type:jsonb;not null" json:"affected_region_start"`
	AffectedRegionEnd   datatypes.JSONType[Point] `gorm:"column:affected_region_end;type:jsonb;not null" json:"affected_region_end"`
	StartTime           time.Time                 `gorm:"column:start_time;not null" json:"start_time"`
	EndTime             time.Time                 `gorm:"column:end_time;not null" json:"end_time"`
	DelayFactor         decimal.Decimal           `gorm:"column:delay_factor;type:numeric(8,4);not null" json:"delay_factor"`
	CreatedAt           time.Time                 `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (*SpaceWeather) TableName() string {
	return TableNameSpaceWeather
}
