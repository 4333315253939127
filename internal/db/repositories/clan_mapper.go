package repositories

import (
	"slices"

	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"
	gormModels "tacticalops/clanhub/internal/models/gorm"

	"gorm.io/datatypes"
)

func toClanRow(c *entities.Clan) gormModels.Clan {
	return gormModels.Clan{
		ID:              c.ID,
		Name:            c.Name,
		Tag:             c.Tag,
		Description:     c.Description,
		GameType:        c.GameType,
		State:           c.State,
		PrimaryBase:     c.PrimaryBase,
		SecondaryBases:  datatypes.JSONSlice[string](nonNil(c.SecondaryBases)),
		Points:          c.Points,
		RankLevel:       c.RankLevel,
		LeaderID:        c.LeaderID,
		SeniorOfficerID: c.SeniorOfficerID,
		Achievements:    datatypes.JSONSlice[string](nonNil(c.Achievements)),
		LogoURL:         c.LogoURL,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// toClanEntity expects Memberships to be preloaded in join order.
func toClanEntity(row *gormModels.Clan) *entities.Clan {
	members := make([]string, 0, len(row.Memberships))
	for _, m := range row.Memberships {
		members = append(members, m.UserID)
	}
	return &entities.Clan{
		ID:              row.ID,
		Name:            row.Name,
		Tag:             row.Tag,
		Description:     row.Description,
		GameType:        row.GameType,
		State:           row.State,
		PrimaryBase:     row.PrimaryBase,
		SecondaryBases:  nonNil([]string(row.SecondaryBases)),
		Points:          row.Points,
		RankLevel:       row.RankLevel,
		LeaderID:        row.LeaderID,
		SeniorOfficerID: row.SeniorOfficerID,
		MemberIDs:       members,
		Achievements:    nonNil([]string(row.Achievements)),
		LogoURL:         row.LogoURL,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func roleFor(c *entities.Clan, userID string) constants.ClanRole {
	switch {
	case c.LeaderID == userID:
		return constants.RoleLeader
	case c.IsSeniorOfficer(userID):
		return constants.RoleSeniorOfficer
	default:
		return constants.RoleMember
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
