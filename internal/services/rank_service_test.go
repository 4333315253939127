package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRankTable_RejectsMalformedTables(t *testing.T) {
	cases := map[string][]entities.RankRow{
		"empty":           nil,
		"gap":             {{Level: 0}, {Level: 2, PointsRequired: 10}},
		"nonzero base":    {{Level: 0, PointsRequired: 5}},
		"decreasing":      {{Level: 0}, {Level: 1, PointsRequired: 100}, {Level: 2, PointsRequired: 50}},
		"missing level 0": {{Level: 1, PointsRequired: 0}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRankTable(rows)
			assert.Error(t, err)
		})
	}
}

func TestNewRankTable_AcceptsUnsortedRows(t *testing.T) {
	table, err := NewRankTable([]entities.RankRow{
		{Level: 1, PointsRequired: 100, Name: "Regular"},
		{Level: 0, PointsRequired: 0, Name: "Recruit"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, table.MaxLevel())
	assert.Equal(t, "Recruit", table.Rows()[0].Name)
}

func TestRankTable_Progress(t *testing.T) {
	table, err := NewRankTable(defaultRanks())
	require.NoError(t, err)

	cases := []struct {
		points  int64
		level   int
		name    string
		toNext  int64
		percent float64
	}{
		{0, 0, "Recruit", 100, 0},
		{50, 0, "Recruit", 50, 50},
		{100, 1, "Regular", 400, 0},
		{300, 1, "Regular", 200, 50},
		{499, 1, "Regular", 1, 99.75},
		// Levels 2 and 3 share a threshold, so the higher one wins.
		{500, 3, "Elite", 1500, 0},
		{2000, 4, "Legend", 0, 100},
		{1_000_000, 4, "Legend", 0, 100},
		{-20, 0, "Recruit", 100, 0},
	}

	for _, tc := range cases {
		p := table.Progress(tc.points)
		assert.Equal(t, tc.level, p.Level, "points=%d", tc.points)
		assert.Equal(t, tc.name, p.Name, "points=%d", tc.points)
		assert.Equal(t, tc.toNext, p.PointsToNext, "points=%d", tc.points)
		assert.InDelta(t, tc.percent, p.Percent, 0.001, "points=%d", tc.points)
	}
}

func TestRankTable_LevelBounds(t *testing.T) {
	table, err := NewRankTable(defaultRanks())
	require.NoError(t, err)
	rows := table.Rows()

	for p := int64(0); p <= 2500; p += 7 {
		level := table.LevelFor(p)
		require.GreaterOrEqual(t, level, 0)
		require.LessOrEqual(t, level, table.MaxLevel())
		assert.LessOrEqual(t, rows[level].PointsRequired, p)
		if level < table.MaxLevel() {
			assert.Greater(t, rows[level+1].PointsRequired, p)
		}
	}
}

func TestRankService_CachesAndRefreshes(t *testing.T) {
	src := &fakeRankSource{rows: defaultRanks()}
	svc := NewRankService(src, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Progress(ctx, 10)
	require.NoError(t, err)
	_, err = svc.Progress(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	src.rows = []entities.RankRow{{Level: 0, Name: "Only"}}
	require.NoError(t, svc.Refresh(ctx))
	p, err := svc.Progress(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Only", p.Name)
}

func TestRankService_FailedRefreshKeepsPreviousTable(t *testing.T) {
	src := &fakeRankSource{rows: defaultRanks()}
	svc := NewRankService(src, time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, svc.Refresh(ctx))

	src.err = errors.New("db down")
	err := svc.Refresh(ctx)
	assert.True(t, errors.Is(err, apperr.ErrTransport))

	p, err := svc.Progress(ctx, 150)
	require.NoError(t, err)
	assert.Equal(t, "Regular", p.Name)
}

func TestRankService_RejectsInvalidTable(t *testing.T) {
	src := &fakeRankSource{rows: []entities.RankRow{{Level: 0, PointsRequired: 10}}}
	svc := NewRankService(src, time.Hour, nil)

	_, err := svc.Table(context.Background())
	assert.True(t, errors.Is(err, apperr.ErrTransport))
}
