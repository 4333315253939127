package services

import (
	"context"

	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"
)

// ClanRepository is the persistent clan store. Implementations return
// apperr.NotFound for missing clans and apperr.Transport for backend failures.
type ClanRepository interface {
	Create(ctx context.Context, clan *entities.Clan) error
	Update(ctx context.Context, clan *entities.Clan) error
	GetByID(ctx context.Context, clanID string) (*entities.Clan, error)
	List(ctx context.Context, page, pageSize int, gameType *constants.GameType) ([]entities.Clan, int64, error)
	Top(ctx context.Context, n int, gameType *constants.GameType) ([]entities.Clan, error)
	Search(ctx context.Context, term string, limit int) ([]entities.Clan, error)
	FindMembership(ctx context.Context, userID string, gameType constants.GameType) (*entities.Membership, error)
	CountLeaderships(ctx context.Context, userID string) (int64, error)
	NameTaken(ctx context.Context, gameType constants.GameType, name, excludeID string) (bool, error)
	TagTaken(ctx context.Context, gameType constants.GameType, tag, excludeID string) (bool, error)
	Memberships(ctx context.Context, clanID string) ([]entities.Membership, error)
}

type PlayerRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]entities.Player, error)
}

type FieldDictionary interface {
	FieldsFor(ctx context.Context, state string, gameType constants.GameType) ([]string, error)
}

type RankSource interface {
	LoadRanks(ctx context.Context) ([]entities.RankRow, error)
}

type LogoUploader interface {
	Upload(ctx context.Context, clanID, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// InvalidationPublisher tells other instances to drop their caches.
type InvalidationPublisher interface {
	Publish(ctx context.Context) error
}
