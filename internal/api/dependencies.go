package api

import (
	"tacticalops/clanhub/internal/auth"
	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/config"
	"tacticalops/clanhub/internal/db/repositories"
	"tacticalops/clanhub/internal/metrics"
	"tacticalops/clanhub/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Clans   *repositories.ClanRepositoryGORM
	Players *repositories.PlayerRepositoryGORM
	Fields  *repositories.FieldRepositoryGORM
	Ranks   *repositories.RankRepo
}

type Services struct {
	Cache  *common.CacheService
	Store  *services.ClanStore
	Ranks  *services.RankService
	Clans  *services.ClanService
	Tokens *auth.TokenManager
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	// Bus is nil when Redis is not configured.
	Bus *common.InvalidationBus
}

// InitDependencies wires repositories and services. redisClient may be nil, in
// which case locking and cache invalidation stay in-process.
func InitDependencies(cfg *config.Config, gdb *gorm.DB, sqlDB *sqlx.DB, redisClient *redis.Client, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Clans:   repositories.NewClanRepositoryGORM(gdb),
		Players: repositories.NewPlayerRepositoryGORM(gdb),
		Fields:  repositories.NewFieldRepositoryGORM(gdb),
		Ranks:   repositories.NewRankRepo(sqlDB),
	}

	cacheSvc := common.NewCacheService(cfg.Cache.TTL, nil)
	store := services.NewClanStore(repos.Clans, cacheSvc, metricsReg)

	var (
		locker common.Locker = common.NewLocalLocker()
		bus    *common.InvalidationBus
	)
	if redisClient != nil {
		locker = common.NewRedisLocker(redisClient, "clanhub:")
		bus = common.NewInvalidationBus(redisClient)
		store.WithPublisher(bus)
	}

	// Outlives one refresh cycle so a single failed reload keeps the table.
	ranks := services.NewRankService(repos.Ranks, cfg.Ranks.RefreshInterval*2, metricsReg)

	clans := services.NewClanService(services.ClanServiceDeps{
		Repo:     repos.Clans,
		Players:  repos.Players,
		Store:    store,
		Location: services.NewLocationSelector(repos.Fields),
		Ranks:    ranks,
		Logos:    common.NewDiskLogoUploader(cfg.Logo.Dir, cfg.Logo.BaseURL),
		Locker:   locker,
		Metrics:  metricsReg,
	})

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:  cacheSvc,
			Store:  store,
			Ranks:  ranks,
			Clans:  clans,
			Tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, cfg.Auth.AdminUserIDs),
		},
		Metrics: metricsReg,
		Bus:     bus,
	}, nil
}
