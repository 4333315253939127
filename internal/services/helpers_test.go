package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/db/repositories"
	"tacticalops/clanhub/internal/metrics"
	"tacticalops/clanhub/internal/models/entities"
	"tacticalops/clanhub/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Mock RankSource
type fakeRankSource struct {
	mu    sync.Mutex
	rows  []entities.RankRow
	err   error
	calls int
}

func (f *fakeRankSource) LoadRanks(ctx context.Context) ([]entities.RankRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// Mock LogoUploader
type fakeUploader struct {
	uploadFunc func(ctx context.Context, clanID, contentType string, data []byte) (string, error)

	mu      sync.Mutex
	deleted []string
}

func (f *fakeUploader) Upload(ctx context.Context, clanID, contentType string, data []byte) (string, error) {
	return f.uploadFunc(ctx, clanID, contentType, data)
}

func (f *fakeUploader) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

// failingWriteRepo reads through to the real repository but rejects writes.
type failingWriteRepo struct {
	ClanRepository
	err error
}

func (r *failingWriteRepo) Create(ctx context.Context, clan *entities.Clan) error { return r.err }

func (r *failingWriteRepo) Update(ctx context.Context, clan *entities.Clan) error { return r.err }

func defaultRanks() []entities.RankRow {
	return []entities.RankRow{
		{Level: 0, PointsRequired: 0, Name: "Recruit"},
		{Level: 1, PointsRequired: 100, Name: "Regular"},
		{Level: 2, PointsRequired: 500, Name: "Veteran"},
		{Level: 3, PointsRequired: 500, Name: "Elite"},
		{Level: 4, PointsRequired: 2000, Name: "Legend"},
	}
}

type testEnv struct {
	db      *gorm.DB
	repo    *repositories.ClanRepositoryGORM
	cache   *common.CacheService
	store   *ClanStore
	svc     *ClanService
	clock   *fakeClock
	ranks   *fakeRankSource
	metrics *metrics.MetricsRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testutil.SetupTestDB(t)
	testutil.SeedFields(t, gdb, "Texas", constants.GameTypeAirsoft, "Fort Hood Range", "Austin CQB", "Dallas Woods")
	testutil.SeedFields(t, gdb, "Texas", constants.GameTypePaintball, "Houston Paint Park")
	testutil.SeedFields(t, gdb, "Nevada", constants.GameTypeAirsoft, "Vegas Arena")

	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	repo := repositories.NewClanRepositoryGORM(gdb)
	cache := common.NewCacheService(constants.DefaultClanCacheTTL, clock.Now)
	store := NewClanStore(repo, cache, reg)
	rankSource := &fakeRankSource{rows: defaultRanks()}

	svc := NewClanService(ClanServiceDeps{
		Repo:     repo,
		Players:  repositories.NewPlayerRepositoryGORM(gdb),
		Store:    store,
		Location: NewLocationSelector(repositories.NewFieldRepositoryGORM(gdb)),
		Ranks:    NewRankService(rankSource, time.Hour, reg),
		Logos: &fakeUploader{uploadFunc: func(ctx context.Context, clanID, contentType string, data []byte) (string, error) {
			return "/static/logos/" + clanID + ".png", nil
		}},
		Locker:  common.NewLocalLocker(),
		Metrics: reg,
	})
	svc.now = clock.Now

	return &testEnv{
		db:      gdb,
		repo:    repo,
		cache:   cache,
		store:   store,
		svc:     svc,
		clock:   clock,
		ranks:   rankSource,
		metrics: reg,
	}
}
