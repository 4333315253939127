package entities

import (
	"time"

	"tacticalops/clanhub/internal/constants"
)

type FactionStanding struct {
	Rank   string `json:"rank"`
	Points int64  `json:"points"`
}

// ClanMember is rebuilt from the player record on every fetch.
type ClanMember struct {
	ID            string             `json:"id"`
	DisplayName   string             `json:"display_name"`
	Human         FactionStanding    `json:"human"`
	Alien         FactionStanding    `json:"alien"`
	MissionsTotal int                `json:"missions_total"`
	Achievements  []string           `json:"achievements"`
	JoinedAt      time.Time          `json:"joined_at"`
	Role          constants.ClanRole `json:"role"`
}

// Player is the subset of a user profile the clan engine reads.
type Player struct {
	ID            string
	DisplayName   string
	HumanRank     string
	HumanPoints   int64
	AlienRank     string
	AlienPoints   int64
	MissionsTotal int
	Achievements  []string
}

// Membership is one roster row.
type Membership struct {
	ClanID   string
	UserID   string
	GameType constants.GameType
	Role     constants.ClanRole
	JoinedAt time.Time
}
