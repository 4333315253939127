package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// Player is owned by the user-profile side of the site; the clan engine only reads it.
type Player struct {
	ID            string                      `gorm:"column:id;primaryKey"`
	DisplayName   string                      `gorm:"column:display_name"`
	HumanRank     string                      `gorm:"column:human_rank"`
	HumanPoints   int64                       `gorm:"column:human_points"`
	AlienRank     string                      `gorm:"column:alien_rank"`
	AlienPoints   int64                       `gorm:"column:alien_points"`
	MissionsTotal int                         `gorm:"column:missions_total"`
	Achievements  datatypes.JSONSlice[string] `gorm:"column:achievements"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Player) TableName() string {
	return "players"
}
