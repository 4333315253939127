package services

import (
	"context"
	"strings"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/metrics"
	"tacticalops/clanhub/internal/models/dtos"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ClanService runs the clan lifecycle. Every mutation holds the clan lock and
// the per-game-type lock of each user it touches, in that order.
type ClanService struct {
	repo       ClanRepository
	players    PlayerRepository
	store      *ClanStore
	location   *LocationSelector
	membership *MembershipEngine
	ranks      *RankService
	logos      LogoUploader
	locker     common.Locker
	validate   *validator.Validate
	metrics    *metrics.MetricsRegistry

	now   func() time.Time
	newID func() string
}

type ClanServiceDeps struct {
	Repo     ClanRepository
	Players  PlayerRepository
	Store    *ClanStore
	Location *LocationSelector
	Ranks    *RankService
	Logos    LogoUploader
	Locker   common.Locker
	Metrics  *metrics.MetricsRegistry
}

func NewClanService(deps ClanServiceDeps) *ClanService {
	locker := deps.Locker
	if locker == nil {
		locker = common.NewLocalLocker()
	}
	return &ClanService{
		repo:       deps.Repo,
		players:    deps.Players,
		store:      deps.Store,
		location:   deps.Location,
		membership: NewMembershipEngine(deps.Repo),
		ranks:      deps.Ranks,
		logos:      deps.Logos,
		locker:     locker,
		validate:   NewValidator(),
		metrics:    deps.Metrics,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func memberLockKey(userID string, gameType constants.GameType) string {
	return constants.LockPrefixMember + userID + ":" + string(gameType)
}

// Create registers a new clan led by actorID.
func (s *ClanService) Create(ctx context.Context, actorID string, in dtos.CreateClanInput) (clan *entities.Clan, err error) {
	defer func() { s.observe("create", err) }()

	if actorID == "" {
		return nil, apperr.NotAuthorized("authentication required")
	}
	normalizeCreate(&in)
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	gameType, err := constants.ParseGameType(in.GameType)
	if err != nil {
		return nil, apperr.Validation("game_type", "%s", err.Error())
	}
	if err := checkFieldShape(in.State, in.PrimaryBase, in.SecondaryBases); err != nil {
		return nil, err
	}

	unlock, err := common.LockAll(ctx, s.locker,
		constants.LockPrefixCreate+string(gameType),
		memberLockKey(actorID, gameType),
	)
	if err != nil {
		return nil, apperr.Transport("acquire lock", err)
	}
	defer unlock()

	if err := s.ensureUnique(ctx, gameType, in.Name, in.Tag, ""); err != nil {
		return nil, err
	}
	if err := s.membership.ensureFree(ctx, actorID, gameType); err != nil {
		return nil, err
	}
	led, err := s.repo.CountLeaderships(ctx, actorID)
	if err != nil {
		return nil, apperr.Transport("count leaderships", err)
	}
	if led >= constants.MaxLeadershipsPerUser {
		return nil, apperr.NotAuthorized("user %s already leads %d clans", actorID, led)
	}

	now := s.now()
	clan = &entities.Clan{
		ID:             s.newID(),
		Name:           in.Name,
		Tag:            in.Tag,
		Description:    in.Description,
		GameType:       gameType,
		State:          in.State,
		SecondaryBases: []string{},
		LeaderID:       actorID,
		MemberIDs:      []string{actorID},
		Achievements:   []string{},
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.location.SetPrimary(ctx, clan, in.PrimaryBase); err != nil {
		return nil, err
	}
	if err := s.location.SetSecondary(ctx, clan, in.SecondaryBases); err != nil {
		return nil, err
	}
	if err := s.applyRank(ctx, clan); err != nil {
		return nil, err
	}
	if err := checkInvariants(clan); err != nil {
		return nil, err
	}
	if err := s.uploadLogo(ctx, clan, in.Logo); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, clan); err != nil {
		s.discardLogo(ctx, in.Logo, clan.LogoURL)
		return nil, apperr.Transport("create clan", err)
	}
	s.store.Invalidate(ctx)

	logging.Info("Clan created", "clan_id", clan.ID, "name", clan.Name, "game_type", clan.GameType, "leader_id", actorID)
	return clan.Clone(), nil
}

// Update replaces the editable fields. Game type and roster are untouched.
func (s *ClanService) Update(ctx context.Context, actorID, clanID string, in dtos.UpdateClanInput) (*entities.Clan, error) {
	normalizeUpdate(&in)
	err := validateInput(s.validate, in)
	if err == nil {
		err = checkFieldShape(in.State, in.PrimaryBase, in.SecondaryBases)
	}
	if err != nil {
		s.observe("update", err)
		return nil, err
	}

	return s.mutate(ctx, "update", clanID, mutateOpts{logo: in.Logo}, func(clan *entities.Clan) (bool, error) {
		if !CanManage(clan, actorID) {
			return false, apperr.NotAuthorized("only the leader or senior officer can edit the clan")
		}
		if err := s.ensureUnique(ctx, clan.GameType, in.Name, in.Tag, clan.ID); err != nil {
			return false, err
		}

		clan.Name = in.Name
		clan.Tag = in.Tag
		clan.Description = in.Description
		if err := s.location.ChangeState(clan, in.State); err != nil {
			return false, err
		}
		if err := s.location.SetPrimary(ctx, clan, in.PrimaryBase); err != nil {
			return false, err
		}
		if err := s.location.SetSecondary(ctx, clan, in.SecondaryBases); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *ClanService) GetByID(ctx context.Context, clanID string) (*entities.Clan, error) {
	clan, err := s.store.GetByID(ctx, clanID)
	if err != nil {
		return nil, err
	}
	if table := s.currentRanks(ctx); table != nil {
		clan.RankLevel = table.LevelFor(clan.Points)
	}
	return clan, nil
}

// ListPage is 1-indexed. An empty gameType lists every game type.
func (s *ClanService) ListPage(ctx context.Context, page, pageSize int, gameType string) (*entities.ClanPage, error) {
	if page < 1 {
		return nil, apperr.Validation("page", "must be at least 1")
	}
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		return nil, apperr.Validation("page_size", "must be between 1 and %d", constants.MaxPageSize)
	}
	gt, err := optionalGameType(gameType)
	if err != nil {
		return nil, err
	}
	result, err := s.store.ListPage(ctx, page, pageSize, gt)
	if err != nil {
		return nil, err
	}
	s.rerank(ctx, result.Clans)
	return result, nil
}

func (s *ClanService) TopN(ctx context.Context, n int, gameType string) ([]entities.Clan, error) {
	if n < 1 || n > constants.MaxTopN {
		return nil, apperr.Validation("n", "must be between 1 and %d", constants.MaxTopN)
	}
	gt, err := optionalGameType(gameType)
	if err != nil {
		return nil, err
	}
	clans, err := s.store.Top(ctx, n, gt)
	if err != nil {
		return nil, err
	}
	s.rerank(ctx, clans)
	return clans, nil
}

// Search always goes to the backend.
func (s *ClanService) Search(ctx context.Context, term string, limit int) ([]entities.Clan, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("q", "is required")
	}
	if limit == 0 {
		limit = constants.DefaultSearchLimit
	}
	if limit < 1 || limit > constants.MaxSearchLimit {
		return nil, apperr.Validation("limit", "must be between 1 and %d", constants.MaxSearchLimit)
	}
	clans, err := s.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, apperr.Transport("search clans", err)
	}
	s.rerank(ctx, clans)
	return clans, nil
}

func (s *ClanService) Join(ctx context.Context, clanID, userID string) (*entities.Clan, error) {
	return s.mutate(ctx, "join", clanID, mutateOpts{users: []string{userID}}, func(clan *entities.Clan) (bool, error) {
		return true, s.membership.Join(ctx, clan, userID)
	})
}

func (s *ClanService) Invite(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error) {
	return s.mutate(ctx, "invite", clanID, mutateOpts{users: []string{targetID}}, func(clan *entities.Clan) (bool, error) {
		return true, s.membership.Invite(ctx, clan, actorID, targetID)
	})
}

func (s *ClanService) Leave(ctx context.Context, clanID, userID string) (*entities.Clan, error) {
	return s.mutate(ctx, "leave", clanID, mutateOpts{users: []string{userID}}, func(clan *entities.Clan) (bool, error) {
		return true, s.membership.Leave(clan, userID)
	})
}

func (s *ClanService) RemoveMember(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error) {
	return s.mutate(ctx, "remove_member", clanID, mutateOpts{users: []string{targetID}}, func(clan *entities.Clan) (bool, error) {
		return true, s.membership.RemoveMember(clan, actorID, targetID)
	})
}

func (s *ClanService) AssignSeniorOfficer(ctx context.Context, clanID, actorID, targetID string) (*entities.Clan, error) {
	return s.mutate(ctx, "assign_officer", clanID, mutateOpts{}, func(clan *entities.Clan) (bool, error) {
		return true, s.membership.AssignSeniorOfficer(clan, actorID, targetID)
	})
}

// RemoveSeniorOfficer is idempotent; an empty slot is not an error and writes nothing.
func (s *ClanService) RemoveSeniorOfficer(ctx context.Context, clanID, actorID string) (*entities.Clan, error) {
	return s.mutate(ctx, "remove_officer", clanID, mutateOpts{}, func(clan *entities.Clan) (bool, error) {
		return s.membership.RemoveSeniorOfficer(clan, actorID)
	})
}

// Role reports the user's role using the cached clan.
func (s *ClanService) Role(ctx context.Context, clanID, userID string) (constants.ClanRole, error) {
	clan, err := s.store.GetByID(ctx, clanID)
	if err != nil {
		return constants.RoleNone, err
	}
	return RoleOf(clan, userID), nil
}

func (s *ClanService) CanManage(ctx context.Context, clanID, userID string) (bool, error) {
	role, err := s.Role(ctx, clanID, userID)
	if err != nil {
		return false, err
	}
	return role.CanManage(), nil
}

func (s *ClanService) RankProgress(ctx context.Context, points int64) (entities.RankProgress, error) {
	return s.ranks.Progress(ctx, points)
}

func (s *ClanService) ValidFields(ctx context.Context, state, gameType string) ([]string, error) {
	gt, err := constants.ParseGameType(gameType)
	if err != nil {
		return nil, apperr.Validation("game_type", "%s", err.Error())
	}
	return s.location.ValidFields(ctx, state, gt)
}

// Members builds the roster view from memberships and player profiles.
func (s *ClanService) Members(ctx context.Context, clanID string) ([]entities.ClanMember, error) {
	clan, err := s.store.GetByID(ctx, clanID)
	if err != nil {
		return nil, err
	}

	var (
		roster  []entities.Membership
		players map[string]entities.Player
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.repo.Memberships(gctx, clanID)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.players.GetByIDs(gctx, clan.MemberIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Transport("load members", err)
	}

	members := make([]entities.ClanMember, 0, len(roster))
	for _, m := range roster {
		member := entities.ClanMember{
			ID:           m.UserID,
			DisplayName:  m.UserID,
			Achievements: []string{},
			JoinedAt:     m.JoinedAt,
			Role:         RoleOf(clan, m.UserID),
		}
		if p, ok := players[m.UserID]; ok {
			member.DisplayName = p.DisplayName
			member.Human = entities.FactionStanding{Rank: p.HumanRank, Points: p.HumanPoints}
			member.Alien = entities.FactionStanding{Rank: p.AlienRank, Points: p.AlienPoints}
			member.MissionsTotal = p.MissionsTotal
			member.Achievements = p.Achievements
		}
		members = append(members, member)
	}
	return members, nil
}

// AwardPoints adds delta to the clan's points and re-derives its rank.
func (s *ClanService) AwardPoints(ctx context.Context, clanID string, delta int64) (*entities.Clan, error) {
	if delta <= 0 {
		err := apperr.Validation("delta", "must be greater than 0")
		s.observe("award_points", err)
		return nil, err
	}
	return s.mutate(ctx, "award_points", clanID, mutateOpts{}, func(clan *entities.Clan) (bool, error) {
		clan.Points += delta
		return true, nil
	})
}

// AddAchievement appends once; repeating an achievement is a no-op.
func (s *ClanService) AddAchievement(ctx context.Context, clanID, achievement string) (*entities.Clan, error) {
	achievement = strings.TrimSpace(achievement)
	if achievement == "" || len([]rune(achievement)) > constants.MaxAchievementLen {
		err := apperr.Validation("achievement", "must be 1-%d characters", constants.MaxAchievementLen)
		s.observe("add_achievement", err)
		return nil, err
	}
	return s.mutate(ctx, "add_achievement", clanID, mutateOpts{}, func(clan *entities.Clan) (bool, error) {
		for _, a := range clan.Achievements {
			if a == achievement {
				return false, nil
			}
		}
		clan.Achievements = append(clan.Achievements, achievement)
		return true, nil
	})
}

// Deactivate retires the clan and releases its roster so members can join
// other clans. Only the leader may do it; repeating it is a no-op.
func (s *ClanService) Deactivate(ctx context.Context, clanID, actorID string) (*entities.Clan, error) {
	return s.mutate(ctx, "deactivate", clanID, mutateOpts{allowInactive: true}, func(clan *entities.Clan) (bool, error) {
		if RoleOf(clan, actorID) != constants.RoleLeader {
			return false, apperr.NotAuthorized("only the leader can deactivate the clan")
		}
		if !clan.IsActive {
			return false, nil
		}
		clan.IsActive = false
		clan.SeniorOfficerID = nil
		clan.MemberIDs = []string{}
		return true, nil
	})
}

type mutateOpts struct {
	users         []string
	allowInactive bool
	// logo is uploaded once the new record passed every check.
	logo *dtos.LogoPayload
}

// mutate loads the clan fresh from the repository under lock, applies fn to a
// copy and persists the copy if fn reports a change. The cache is flushed only
// after a successful write.
func (s *ClanService) mutate(
	ctx context.Context,
	op, clanID string,
	opts mutateOpts,
	fn func(clan *entities.Clan) (bool, error),
) (result *entities.Clan, err error) {
	defer func() { s.observe(op, err) }()

	unlockClan, err := s.locker.Lock(ctx, constants.LockPrefixClan+clanID)
	if err != nil {
		return nil, apperr.Transport("acquire lock", err)
	}
	defer unlockClan()

	current, err := s.repo.GetByID(ctx, clanID)
	if err != nil {
		return nil, apperr.Transport("load clan", err)
	}
	if !current.IsActive && !opts.allowInactive {
		return nil, apperr.NotFound("clan %s is not active", clanID)
	}

	userKeys := make([]string, 0, len(opts.users))
	for _, u := range opts.users {
		if u != "" {
			userKeys = append(userKeys, memberLockKey(u, current.GameType))
		}
	}
	unlockUsers, err := common.LockAll(ctx, s.locker, common.SortedKeys(userKeys...)...)
	if err != nil {
		return nil, apperr.Transport("acquire lock", err)
	}
	defer unlockUsers()

	working := current.Clone()
	changed, err := fn(working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}

	if err := s.applyRank(ctx, working); err != nil {
		return nil, err
	}
	if err := checkInvariants(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = s.now()
	if err := s.uploadLogo(ctx, working, opts.logo); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, working); err != nil {
		s.discardLogo(ctx, opts.logo, working.LogoURL)
		return nil, apperr.Transport(op, err)
	}
	s.store.Invalidate(ctx)

	logging.Info("Clan updated", "operation", op, "clan_id", clanID)
	return working.Clone(), nil
}

func (s *ClanService) applyRank(ctx context.Context, clan *entities.Clan) error {
	table, err := s.ranks.Table(ctx)
	if err != nil {
		return err
	}
	clan.RankLevel = table.LevelFor(clan.Points)
	return nil
}

// currentRanks returns the loaded rank table, or nil when none can be loaded.
// Reads then fall back to the stored rank level.
func (s *ClanService) currentRanks(ctx context.Context) *RankTable {
	table, err := s.ranks.Table(ctx)
	if err != nil {
		logging.Warn("Rank table unavailable, serving stored rank levels", "error", err.Error())
		return nil
	}
	return table
}

// rerank derives RankLevel from the current table so a refreshed table is
// visible before the clan is next written.
func (s *ClanService) rerank(ctx context.Context, clans []entities.Clan) {
	table := s.currentRanks(ctx)
	if table == nil {
		return
	}
	for i := range clans {
		clans[i].RankLevel = table.LevelFor(clans[i].Points)
	}
}

func (s *ClanService) ensureUnique(ctx context.Context, gameType constants.GameType, name, tag, excludeID string) error {
	taken, err := s.repo.NameTaken(ctx, gameType, name, excludeID)
	if err != nil {
		return apperr.Transport("check clan name", err)
	}
	if taken {
		return apperr.Validation("name", "%q is already taken", name)
	}

	taken, err = s.repo.TagTaken(ctx, gameType, tag, excludeID)
	if err != nil {
		return apperr.Transport("check clan tag", err)
	}
	if taken {
		return apperr.Validation("tag", "%q is already taken", tag)
	}
	return nil
}

func (s *ClanService) uploadLogo(ctx context.Context, clan *entities.Clan, logo *dtos.LogoPayload) error {
	if logo == nil {
		return nil
	}
	if s.logos == nil {
		return apperr.Validation("logo", "logo uploads are not enabled")
	}
	url, err := s.logos.Upload(ctx, clan.ID, logo.ContentType, logo.Data)
	if err != nil {
		return apperr.Transport("upload logo", err)
	}
	clan.LogoURL = url
	return nil
}

// discardLogo removes a logo uploaded for a write that did not land.
func (s *ClanService) discardLogo(ctx context.Context, logo *dtos.LogoPayload, url string) {
	if logo == nil || url == "" {
		return
	}
	if err := s.logos.Delete(ctx, url); err != nil {
		logging.Warn("Failed to remove orphaned logo", "url", url, "error", err.Error())
	}
}

func (s *ClanService) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(apperr.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	s.metrics.ClanMutationsTotal.WithLabelValues(op, result).Inc()
}

// checkFieldShape covers the location rules that need no lookup.
func checkFieldShape(state, primary string, secondary []string) error {
	if !constants.IsKnownState(state) {
		return apperr.Validation("state", "unknown state %q", state)
	}
	if state == constants.AllRegions {
		if primary != "" {
			return apperr.Validation("primary_base", "choose a state before picking bases")
		}
		if len(secondary) > 0 {
			return apperr.Validation("secondary_bases", "choose a state before picking bases")
		}
	}
	if primary == "" {
		return nil
	}
	for _, f := range secondary {
		if f == primary {
			return apperr.Validation("secondary_bases", "%q is already the primary base", f)
		}
	}
	return nil
}

func optionalGameType(s string) (*constants.GameType, error) {
	if s == "" {
		return nil, nil
	}
	gt, err := constants.ParseGameType(s)
	if err != nil {
		return nil, apperr.Validation("game_type", "%s", err.Error())
	}
	return &gt, nil
}

func normalizeCreate(in *dtos.CreateClanInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Tag = strings.ToUpper(strings.TrimSpace(in.Tag))
	in.Description = strings.TrimSpace(in.Description)
	in.State = strings.TrimSpace(in.State)
	in.PrimaryBase = strings.TrimSpace(in.PrimaryBase)
	in.SecondaryBases = trimAll(in.SecondaryBases)
	if gt, err := constants.ParseGameType(strings.TrimSpace(in.GameType)); err == nil {
		in.GameType = string(gt)
	}
}

func normalizeUpdate(in *dtos.UpdateClanInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Tag = strings.ToUpper(strings.TrimSpace(in.Tag))
	in.Description = strings.TrimSpace(in.Description)
	in.State = strings.TrimSpace(in.State)
	in.PrimaryBase = strings.TrimSpace(in.PrimaryBase)
	in.SecondaryBases = trimAll(in.SecondaryBases)
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
