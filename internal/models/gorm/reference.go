package gorm

import "tacticalops/clanhub/internal/constants"

// Field is a playing field registered for a state and game type.
type Field struct {
	ID       uint               `gorm:"column:id;primaryKey;autoIncrement"`
	State    string             `gorm:"column:state;size:32;not null;uniqueIndex:idx_fields_state_game_name"`
	GameType constants.GameType `gorm:"column:game_type;size:16;not null;uniqueIndex:idx_fields_state_game_name"`
	Name     string             `gorm:"column:name;not null;uniqueIndex:idx_fields_state_game_name"`
}

// TableName specifies the table name for GORM
func (Field) TableName() string {
	return "fields"
}

type ClanRank struct {
	Level          int    `gorm:"column:level;primaryKey;autoIncrement:false"`
	PointsRequired int64  `gorm:"column:points_required;not null"`
	Name           string `gorm:"column:name;not null"`
}

// TableName specifies the table name for GORM
func (ClanRank) TableName() string {
	return "clan_ranks"
}
