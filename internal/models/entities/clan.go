package entities

import (
	"slices"
	"time"

	"tacticalops/clanhub/internal/constants"
)

// Clan is the domain view of a clan record, independent of storage.
type Clan struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Tag             string             `json:"tag"`
	Description     string             `json:"description"`
	GameType        constants.GameType `json:"game_type"`
	State           string             `json:"state"`
	PrimaryBase     *string            `json:"primary_base,omitempty"`
	SecondaryBases  []string           `json:"secondary_bases"`
	Points          int64              `json:"points"`
	RankLevel       int                `json:"rank_level"`
	LeaderID        string             `json:"leader_id"`
	SeniorOfficerID *string            `json:"senior_officer_id,omitempty"`
	MemberIDs       []string           `json:"member_ids"`
	Achievements    []string           `json:"achievements"`
	LogoURL         string             `json:"logo_url,omitempty"`
	IsActive        bool               `json:"is_active"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Clone returns a deep copy so mutations can be validated before they are applied.
func (c *Clan) Clone() *Clan {
	if c == nil {
		return nil
	}
	out := *c
	if c.PrimaryBase != nil {
		pb := *c.PrimaryBase
		out.PrimaryBase = &pb
	}
	if c.SeniorOfficerID != nil {
		so := *c.SeniorOfficerID
		out.SeniorOfficerID = &so
	}
	out.SecondaryBases = slices.Clone(c.SecondaryBases)
	out.MemberIDs = slices.Clone(c.MemberIDs)
	out.Achievements = slices.Clone(c.Achievements)
	return &out
}

func (c *Clan) HasMember(userID string) bool {
	return slices.Contains(c.MemberIDs, userID)
}

func (c *Clan) IsSeniorOfficer(userID string) bool {
	return c.SeniorOfficerID != nil && *c.SeniorOfficerID == userID
}

// ClanPage is one page of a listing.
type ClanPage struct {
	Clans      []Clan `json:"clans"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
}
