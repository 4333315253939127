package services

import (
	"context"
	"slices"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"
)

// RoleOf is the single source of truth for a user's role in a clan.
func RoleOf(clan *entities.Clan, userID string) constants.ClanRole {
	switch {
	case userID == "":
		return constants.RoleNone
	case clan.LeaderID == userID:
		return constants.RoleLeader
	case clan.IsSeniorOfficer(userID):
		return constants.RoleSeniorOfficer
	case clan.HasMember(userID):
		return constants.RoleMember
	default:
		return constants.RoleNone
	}
}

func CanManage(clan *entities.Clan, userID string) bool {
	return RoleOf(clan, userID).CanManage()
}

func roleRank(r constants.ClanRole) int {
	switch r {
	case constants.RoleLeader:
		return 3
	case constants.RoleSeniorOfficer:
		return 2
	case constants.RoleMember:
		return 1
	default:
		return 0
	}
}

// MembershipEngine applies roster changes to a working copy of a clan. The
// caller persists the copy only when the engine returns no error.
type MembershipEngine struct {
	repo ClanRepository
}

func NewMembershipEngine(repo ClanRepository) *MembershipEngine {
	return &MembershipEngine{repo: repo}
}

func (e *MembershipEngine) Join(ctx context.Context, clan *entities.Clan, userID string) error {
	if userID == "" {
		return apperr.Validation("user_id", "is required")
	}
	return e.admit(ctx, clan, userID)
}

func (e *MembershipEngine) Invite(ctx context.Context, clan *entities.Clan, actorID, targetID string) error {
	if !CanManage(clan, actorID) {
		return apperr.NotAuthorized("only the leader or senior officer can invite")
	}
	if targetID == "" {
		return apperr.Validation("user_id", "is required")
	}
	return e.admit(ctx, clan, targetID)
}

func (e *MembershipEngine) admit(ctx context.Context, clan *entities.Clan, userID string) error {
	if !clan.IsActive {
		return apperr.NotFound("clan %s is not active", clan.ID)
	}
	if clan.HasMember(userID) {
		return apperr.AlreadyInClan("user %s is already a member of %s", userID, clan.Name)
	}
	if err := e.ensureFree(ctx, userID, clan.GameType); err != nil {
		return err
	}
	clan.MemberIDs = append(clan.MemberIDs, userID)
	return nil
}

// ensureFree rejects users who already belong to a clan of gameType.
func (e *MembershipEngine) ensureFree(ctx context.Context, userID string, gameType constants.GameType) error {
	existing, err := e.repo.FindMembership(ctx, userID, gameType)
	if err != nil {
		return apperr.Transport("check membership", err)
	}
	if existing != nil {
		return apperr.AlreadyInClan("user %s is already in a %s clan", userID, gameType)
	}
	return nil
}

func (e *MembershipEngine) Leave(clan *entities.Clan, userID string) error {
	switch RoleOf(clan, userID) {
	case constants.RoleLeader:
		return apperr.LeaderCannotLeave("the leader cannot leave %s", clan.Name)
	case constants.RoleNone:
		return apperr.NotFound("user %s is not a member of %s", userID, clan.Name)
	}
	removeMember(clan, userID)
	return nil
}

// RemoveMember lets the leader or officer remove someone ranked below them.
func (e *MembershipEngine) RemoveMember(clan *entities.Clan, actorID, targetID string) error {
	actorRole := RoleOf(clan, actorID)
	if !actorRole.CanManage() {
		return apperr.NotAuthorized("only the leader or senior officer can remove members")
	}
	if actorID == targetID {
		return apperr.Validation("user_id", "use leave to remove yourself")
	}

	targetRole := RoleOf(clan, targetID)
	switch {
	case targetRole == constants.RoleNone:
		return apperr.NotFound("user %s is not a member of %s", targetID, clan.Name)
	case targetRole == constants.RoleLeader:
		return apperr.NotAuthorized("the leader cannot be removed")
	case roleRank(targetRole) >= roleRank(actorRole):
		return apperr.NotAuthorized("cannot remove a member of equal or higher rank")
	}

	removeMember(clan, targetID)
	return nil
}

func (e *MembershipEngine) AssignSeniorOfficer(clan *entities.Clan, actorID, targetID string) error {
	if RoleOf(clan, actorID) != constants.RoleLeader {
		return apperr.NotAuthorized("only the leader can assign the senior officer")
	}
	if targetID == clan.LeaderID {
		return apperr.NotAuthorized("the leader cannot also be senior officer")
	}
	if !clan.HasMember(targetID) {
		return apperr.NotAuthorized("user %s is not a member of %s", targetID, clan.Name)
	}
	officer := targetID
	clan.SeniorOfficerID = &officer
	return nil
}

// RemoveSeniorOfficer reports whether anything changed; clearing an empty slot is fine.
func (e *MembershipEngine) RemoveSeniorOfficer(clan *entities.Clan, actorID string) (bool, error) {
	if RoleOf(clan, actorID) != constants.RoleLeader {
		return false, apperr.NotAuthorized("only the leader can remove the senior officer")
	}
	if clan.SeniorOfficerID == nil {
		return false, nil
	}
	clan.SeniorOfficerID = nil
	return true, nil
}

func removeMember(clan *entities.Clan, userID string) {
	clan.MemberIDs = slices.DeleteFunc(clan.MemberIDs, func(id string) bool { return id == userID })
	if clan.IsSeniorOfficer(userID) {
		clan.SeniorOfficerID = nil
	}
}

// checkInvariants guards every write. A violation here is a bug in the
// operation that produced the clan, reported as a validation failure.
func checkInvariants(clan *entities.Clan) error {
	seen := make(map[string]struct{}, len(clan.MemberIDs))
	for _, id := range clan.MemberIDs {
		if _, dup := seen[id]; dup {
			return apperr.Validation("member_ids", "user %s listed twice", id)
		}
		seen[id] = struct{}{}
	}

	if clan.IsActive && !clan.HasMember(clan.LeaderID) {
		return apperr.Validation("leader_id", "leader must be a member")
	}
	if so := clan.SeniorOfficerID; so != nil {
		if *so == clan.LeaderID {
			return apperr.Validation("senior_officer_id", "must differ from the leader")
		}
		if !clan.HasMember(*so) {
			return apperr.Validation("senior_officer_id", "must be a member")
		}
	}

	if len(clan.SecondaryBases) > constants.MaxSecondaryBases {
		return apperr.Validation("secondary_bases", "must have at most %d entries", constants.MaxSecondaryBases)
	}
	bases := make(map[string]struct{}, len(clan.SecondaryBases))
	for _, b := range clan.SecondaryBases {
		if _, dup := bases[b]; dup {
			return apperr.Validation("secondary_bases", "%q is listed twice", b)
		}
		if clan.PrimaryBase != nil && *clan.PrimaryBase == b {
			return apperr.Validation("secondary_bases", "%q is already the primary base", b)
		}
		bases[b] = struct{}{}
	}

	if clan.Points < 0 {
		return apperr.Validation("points", "must not be negative")
	}
	return nil
}
