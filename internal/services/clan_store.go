package services

import (
	"context"
	"fmt"

	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/metrics"
	"tacticalops/clanhub/internal/models/entities"
)

// ClanStore is the read-through cache in front of the clan repository. Cached
// values are never handed out directly; callers get copies.
type ClanStore struct {
	repo    ClanRepository
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
	bus     InvalidationPublisher
}

func NewClanStore(repo ClanRepository, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *ClanStore {
	return &ClanStore{repo: repo, cache: cache, metrics: metricsReg}
}

// WithPublisher makes Invalidate notify other instances as well.
func (s *ClanStore) WithPublisher(bus InvalidationPublisher) *ClanStore {
	s.bus = bus
	return s
}

func (s *ClanStore) GetByID(ctx context.Context, clanID string) (*entities.Clan, error) {
	key := string(constants.CachePrefixClanByID) + clanID
	v, err := s.read(key, "clan:id", func() (any, error) {
		return s.repo.GetByID(ctx, clanID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entities.Clan).Clone(), nil
}

func (s *ClanStore) ListPage(ctx context.Context, page, pageSize int, gameType *constants.GameType) (*entities.ClanPage, error) {
	key := fmt.Sprintf("%s%d:%d:%s", constants.CachePrefixClansPage, page, pageSize, gameTypeLabel(gameType))
	v, err := s.read(key, "clans:page", func() (any, error) {
		clans, total, err := s.repo.List(ctx, page, pageSize, gameType)
		if err != nil {
			return nil, err
		}
		return &entities.ClanPage{
			Clans:      clans,
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	cached := v.(*entities.ClanPage)
	out := *cached
	out.Clans = cloneClans(cached.Clans)
	return &out, nil
}

func (s *ClanStore) Top(ctx context.Context, n int, gameType *constants.GameType) ([]entities.Clan, error) {
	key := fmt.Sprintf("%s%d:%s", constants.CachePrefixClansTop, n, gameTypeLabel(gameType))
	v, err := s.read(key, "clans:top", func() (any, error) {
		return s.repo.Top(ctx, n, gameType)
	})
	if err != nil {
		return nil, err
	}
	return cloneClans(v.([]entities.Clan)), nil
}

// Invalidate drops every cached read. Called after each successful mutation.
func (s *ClanStore) Invalidate(ctx context.Context) {
	s.FlushLocal()
	if s.bus != nil {
		if err := s.bus.Publish(ctx); err != nil {
			logging.Warn("Failed to broadcast cache invalidation", "error", err.Error())
		}
	}
}

// FlushLocal drops this instance's cache without notifying anyone.
func (s *ClanStore) FlushLocal() {
	s.cache.Flush()
	if s.metrics != nil {
		s.metrics.CacheInvalidationsTotal.Inc()
	}
}

func (s *ClanStore) read(key, pattern string, load func() (any, error)) (any, error) {
	if v, ok := s.cache.Get(key); ok {
		s.observe(pattern, true)
		return v, nil
	}
	s.observe(pattern, false)
	return s.cache.GetOrSet(key, 0, load)
}

func (s *ClanStore) observe(pattern string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}

func gameTypeLabel(gameType *constants.GameType) string {
	if gameType == nil {
		return "all"
	}
	return string(*gameType)
}

func cloneClans(in []entities.Clan) []entities.Clan {
	out := make([]entities.Clan, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
