package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/metrics"
	"tacticalops/clanhub/internal/models/entities"
)

// RankTable is an immutable, validated rank ladder ordered by level.
type RankTable struct {
	rows []entities.RankRow
}

// NewRankTable requires levels 0..n-1 with no gaps, level 0 at 0 points and
// non-decreasing thresholds.
func NewRankTable(rows []entities.RankRow) (*RankTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("rank table is empty")
	}
	sorted := slices.Clone(rows)
	slices.SortFunc(sorted, func(a, b entities.RankRow) int { return a.Level - b.Level })

	for i, row := range sorted {
		if row.Level != i {
			return nil, fmt.Errorf("rank table: expected level %d, found %d", i, row.Level)
		}
		if i == 0 && row.PointsRequired != 0 {
			return nil, fmt.Errorf("rank table: level 0 must require 0 points, got %d", row.PointsRequired)
		}
		if i > 0 && row.PointsRequired < sorted[i-1].PointsRequired {
			return nil, fmt.Errorf("rank table: level %d requires fewer points than level %d", i, i-1)
		}
	}
	return &RankTable{rows: sorted}, nil
}

func (t *RankTable) MaxLevel() int { return len(t.rows) - 1 }

func (t *RankTable) Rows() []entities.RankRow { return slices.Clone(t.rows) }

// LevelFor returns the greatest level whose threshold is reached. On equal
// thresholds the higher level wins.
func (t *RankTable) LevelFor(points int64) int {
	if points < 0 {
		points = 0
	}
	for i := len(t.rows) - 1; i > 0; i-- {
		if t.rows[i].PointsRequired <= points {
			return i
		}
	}
	return 0
}

func (t *RankTable) Progress(points int64) entities.RankProgress {
	if points < 0 {
		points = 0
	}
	level := t.LevelFor(points)
	current := t.rows[level]
	progress := entities.RankProgress{
		Level:  level,
		Name:   current.Name,
		Points: points,
	}

	if level == t.MaxLevel() {
		progress.Percent = 100
		return progress
	}

	next := t.rows[level+1].PointsRequired
	progress.PointsToNext = next - points
	pct := 100 * float64(points-current.PointsRequired) / float64(next-current.PointsRequired)
	progress.Percent = min(max(pct, 0), 100)
	return progress
}

// RankService serves the rank table from a cache refreshed by the rank worker.
type RankService struct {
	source  RankSource
	cache   *common.CacheService
	metrics *metrics.MetricsRegistry
}

func NewRankService(source RankSource, ttl time.Duration, metricsReg *metrics.MetricsRegistry) *RankService {
	return &RankService{
		source:  source,
		cache:   common.NewCacheService(ttl, nil),
		metrics: metricsReg,
	}
}

// Table returns the cached table, loading it on a miss.
func (s *RankService) Table(ctx context.Context) (*RankTable, error) {
	v, err := s.cache.GetOrSet(string(constants.CachePrefixRankTable), 0, func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RankTable), nil
}

// Refresh reloads the table. A failed reload keeps serving the previous one.
func (s *RankService) Refresh(ctx context.Context) error {
	table, err := s.load(ctx)
	if err != nil {
		s.observeRefresh("error")
		return err
	}
	s.cache.Set(string(constants.CachePrefixRankTable), table, 0)
	s.observeRefresh("ok")
	return nil
}

func (s *RankService) Progress(ctx context.Context, points int64) (entities.RankProgress, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return entities.RankProgress{}, err
	}
	return table.Progress(points), nil
}

func (s *RankService) load(ctx context.Context) (*RankTable, error) {
	rows, err := s.source.LoadRanks(ctx)
	if err != nil {
		return nil, apperr.Transport("load rank table", err)
	}
	table, err := NewRankTable(rows)
	if err != nil {
		logging.Error("Rejected rank table", "error", err.Error())
		return nil, apperr.Transport("load rank table", err)
	}
	if s.metrics != nil {
		s.metrics.RankTableLevels.Set(float64(len(table.rows)))
	}
	return table, nil
}

func (s *RankService) observeRefresh(result string) {
	if s.metrics != nil {
		s.metrics.RankTableRefreshes.WithLabelValues(result).Inc()
	}
}
