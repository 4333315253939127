package gorm

import (
	"time"

	"tacticalops/clanhub/internal/constants"

	"gorm.io/datatypes"
)

type Clan struct {
	ID              string                      `gorm:"column:id;primaryKey;type:uuid"`
	Name            string                      `gorm:"column:name;size:50;not null;uniqueIndex:idx_clans_game_name"`
	Tag             string                      `gorm:"column:tag;size:6;not null;uniqueIndex:idx_clans_game_tag"`
	Description     string                      `gorm:"column:description;size:500"`
	GameType        constants.GameType          `gorm:"column:game_type;size:16;not null;uniqueIndex:idx_clans_game_name;uniqueIndex:idx_clans_game_tag;index"`
	State           string                      `gorm:"column:state;size:32;not null"`
	PrimaryBase     *string                     `gorm:"column:primary_base"`
	SecondaryBases  datatypes.JSONSlice[string] `gorm:"column:secondary_bases"`
	Points          int64                       `gorm:"column:points;not null"`
	RankLevel       int                         `gorm:"column:rank_level;not null"`
	LeaderID        string                      `gorm:"column:leader_id;not null;index"`
	SeniorOfficerID *string                     `gorm:"column:senior_officer_id"`
	Achievements    datatypes.JSONSlice[string] `gorm:"column:achievements"`
	LogoURL         string                      `gorm:"column:logo_url"`
	IsActive        bool                        `gorm:"column:is_active;not null;index"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Memberships []ClanMembership `gorm:"foreignKey:ClanID"`
}

// TableName specifies the table name for GORM
func (Clan) TableName() string {
	return "clans"
}

// ClanMembership is one roster row. The (user_id, game_type) index backs the
// one-clan-per-game-type rule at the storage level.
type ClanMembership struct {
	ClanID   string             `gorm:"column:clan_id;primaryKey;type:uuid"`
	UserID   string             `gorm:"column:user_id;primaryKey;uniqueIndex:idx_members_user_game"`
	GameType constants.GameType `gorm:"column:game_type;size:16;not null;uniqueIndex:idx_members_user_game"`
	Role     constants.ClanRole `gorm:"column:role;size:24;not null"`
	JoinedAt time.Time          `gorm:"column:joined_at"`
}

// TableName specifies the table name for GORM
func (ClanMembership) TableName() string {
	return "clan_members"
}
