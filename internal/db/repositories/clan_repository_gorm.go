package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/db"
	"tacticalops/clanhub/internal/models/entities"
	gormModels "tacticalops/clanhub/internal/models/gorm"

	"gorm.io/gorm"
)

// ClanRepositoryGORM persists clans and their rosters.
type ClanRepositoryGORM struct {
	db  *gorm.DB
	now func() time.Time
}

func NewClanRepositoryGORM(db *gorm.DB) *ClanRepositoryGORM {
	return &ClanRepositoryGORM{db: db, now: time.Now}
}

func preloadRoster(tx *gorm.DB) *gorm.DB {
	return tx.Order("joined_at ASC, user_id ASC")
}

// Create inserts the clan row and one roster row per member in a single transaction.
func (r *ClanRepositoryGORM) Create(ctx context.Context, clan *entities.Clan) error {
	row := toClanRow(clan)
	now := r.now()

	err := db.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit("Memberships").Create(&row).Error; err != nil {
			return err
		}
		return insertRoster(tx, clan, nil, now)
	})
	if err != nil {
		return translateWriteErr("create clan", err)
	}
	clan.CreatedAt = row.CreatedAt
	clan.UpdatedAt = row.UpdatedAt
	return nil
}

// Update overwrites every column and replaces the roster. Existing members keep
// their original join time.
func (r *ClanRepositoryGORM) Update(ctx context.Context, clan *entities.Clan) error {
	row := toClanRow(clan)
	now := r.now()
	row.UpdatedAt = now

	err := db.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&gormModels.Clan{ID: clan.ID}).
			Select("*").
			Omit("id", "created_at", "Memberships").
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("clan %s not found", clan.ID)
		}

		var existing []gormModels.ClanMembership
		if err := tx.Where("clan_id = ?", clan.ID).Find(&existing).Error; err != nil {
			return err
		}
		joined := make(map[string]time.Time, len(existing))
		for _, m := range existing {
			joined[m.UserID] = m.JoinedAt
		}

		if err := tx.Where("clan_id = ?", clan.ID).Delete(&gormModels.ClanMembership{}).Error; err != nil {
			return err
		}
		return insertRoster(tx, clan, joined, now)
	})
	if err != nil {
		return translateWriteErr("update clan", err)
	}
	clan.UpdatedAt = now
	return nil
}

func insertRoster(tx *gorm.DB, clan *entities.Clan, joined map[string]time.Time, now time.Time) error {
	if len(clan.MemberIDs) == 0 {
		return nil
	}
	rows := make([]gormModels.ClanMembership, 0, len(clan.MemberIDs))
	for _, userID := range clan.MemberIDs {
		at, ok := joined[userID]
		if !ok {
			at = now
		}
		rows = append(rows, gormModels.ClanMembership{
			ClanID:   clan.ID,
			UserID:   userID,
			GameType: clan.GameType,
			Role:     roleFor(clan, userID),
			JoinedAt: at,
		})
	}
	return tx.Create(&rows).Error
}

func (r *ClanRepositoryGORM) GetByID(ctx context.Context, clanID string) (*entities.Clan, error) {
	var row gormModels.Clan

	err := r.db.WithContext(ctx).
		Preload("Memberships", preloadRoster).
		Where("id = ?", clanID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("clan %s not found", clanID)
		}
		return nil, apperr.Transport("get clan", err)
	}
	return toClanEntity(&row), nil
}

// List returns one page of active clans ordered by creation.
func (r *ClanRepositoryGORM) List(ctx context.Context, page, pageSize int, gameType *constants.GameType) ([]entities.Clan, int64, error) {
	base := r.activeScope(ctx, gameType)

	var total int64
	if err := base.Session(&gorm.Session{}).Model(&gormModels.Clan{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Transport("count clans", err)
	}

	var rows []gormModels.Clan
	err := base.Session(&gorm.Session{}).
		Preload("Memberships", preloadRoster).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperr.Transport("list clans", err)
	}
	return toClanEntities(rows), total, nil
}

// Top orders by points, oldest clan first on ties, then id.
func (r *ClanRepositoryGORM) Top(ctx context.Context, n int, gameType *constants.GameType) ([]entities.Clan, error) {
	var rows []gormModels.Clan

	err := r.activeScope(ctx, gameType).
		Preload("Memberships", preloadRoster).
		Order("points DESC, created_at ASC, id ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Transport("top clans", err)
	}
	return toClanEntities(rows), nil
}

// Search does a case-insensitive substring match on name and tag.
func (r *ClanRepositoryGORM) Search(ctx context.Context, term string, limit int) ([]entities.Clan, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	var rows []gormModels.Clan
	err := r.activeScope(ctx, nil).
		Preload("Memberships", preloadRoster).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(tag) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("name ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Transport("search clans", err)
	}
	return toClanEntities(rows), nil
}

// FindMembership returns the user's roster row for gameType, or nil when the
// user is in no clan of that type.
func (r *ClanRepositoryGORM) FindMembership(ctx context.Context, userID string, gameType constants.GameType) (*entities.Membership, error) {
	var row gormModels.ClanMembership

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND game_type = ?", userID, gameType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Transport("find membership", err)
	}
	m := toMembership(row)
	return &m, nil
}

func (r *ClanRepositoryGORM) CountLeaderships(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Clan{}).
		Where("leader_id = ? AND is_active = ?", userID, true).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Transport("count leaderships", err)
	}
	return n, nil
}

// NameTaken compares names case-insensitively within a game type.
func (r *ClanRepositoryGORM) NameTaken(ctx context.Context, gameType constants.GameType, name, excludeID string) (bool, error) {
	return r.exists(ctx, "check clan name", excludeID,
		"game_type = ? AND LOWER(name) = ?", gameType, strings.ToLower(name))
}

// TagTaken expects tag to be upper-cased already.
func (r *ClanRepositoryGORM) TagTaken(ctx context.Context, gameType constants.GameType, tag, excludeID string) (bool, error) {
	return r.exists(ctx, "check clan tag", excludeID, "game_type = ? AND tag = ?", gameType, tag)
}

func (r *ClanRepositoryGORM) exists(ctx context.Context, op, excludeID, query string, args ...any) (bool, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Clan{}).Where(query, args...)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, apperr.Transport(op, err)
	}
	return n > 0, nil
}

func (r *ClanRepositoryGORM) Memberships(ctx context.Context, clanID string) ([]entities.Membership, error) {
	var rows []gormModels.ClanMembership
	err := preloadRoster(r.db.WithContext(ctx)).
		Where("clan_id = ?", clanID).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Transport("list memberships", err)
	}
	out := make([]entities.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMembership(row))
	}
	return out, nil
}

func (r *ClanRepositoryGORM) activeScope(ctx context.Context, gameType *constants.GameType) *gorm.DB {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if gameType != nil {
		q = q.Where("game_type = ?", *gameType)
	}
	return q
}

func toClanEntities(rows []gormModels.Clan) []entities.Clan {
	out := make([]entities.Clan, 0, len(rows))
	for i := range rows {
		out = append(out, *toClanEntity(&rows[i]))
	}
	return out
}

func toMembership(row gormModels.ClanMembership) entities.Membership {
	return entities.Membership{
		ClanID:   row.ClanID,
		UserID:   row.UserID,
		GameType: row.GameType,
		Role:     row.Role,
		JoinedAt: row.JoinedAt,
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// translateWriteErr keeps domain errors raised inside a transaction and maps
// unique index violations to the error the engine would have raised.
func translateWriteErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation("clan", "conflicts with an existing clan or membership")
	}
	return apperr.Transport(op, err)
}
