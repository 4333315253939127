package repositories

import (
	"context"
	"testing"

	"tacticalops/clanhub/internal/constants"
	gormModels "tacticalops/clanhub/internal/models/gorm"
	"tacticalops/clanhub/internal/testutil"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFieldRepositoryGORM_FieldsFor(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	testutil.SeedFields(t, gdb, "Texas", constants.GameTypeAirsoft, "Fort Hood Range", "Austin CQB")
	testutil.SeedFields(t, gdb, "Texas", constants.GameTypePaintball, "Houston Paint Park")

	repo := NewFieldRepositoryGORM(gdb)
	fields, err := repo.FieldsFor(context.Background(), "Texas", constants.GameTypeAirsoft)

	require.NoError(t, err)
	assert.Equal(t, []string{"Austin CQB", "Fort Hood Range"}, fields)
}

func TestPlayerRepositoryGORM_GetByIDs(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	testutil.SeedPlayer(t, gdb, gormModels.Player{
		ID:            "u1",
		DisplayName:   "Ghost Actual",
		HumanRank:     "Sergeant",
		HumanPoints:   1200,
		AlienRank:     "Drone",
		AlienPoints:   40,
		MissionsTotal: 17,
		Achievements:  datatypes.JSONSlice[string]{"First Blood"},
	})

	repo := NewPlayerRepositoryGORM(gdb)
	players, err := repo.GetByIDs(context.Background(), []string{"u1", "missing"})

	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Ghost Actual", players["u1"].DisplayName)
	assert.Equal(t, []string{"First Blood"}, players["u1"].Achievements)
}

func TestRankRepo_LoadRanks(t *testing.T) {
	conn, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	conn.MustExec(`CREATE TABLE clan_ranks (level INTEGER PRIMARY KEY, points_required INTEGER NOT NULL, name TEXT NOT NULL)`)
	conn.MustExec(`INSERT INTO clan_ranks (level, points_required, name) VALUES (2, 500, 'Veteran'), (0, 0, 'Recruit'), (1, 100, 'Regular')`)

	rows, err := NewRankRepo(conn).LoadRanks(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Recruit", rows[0].Name)
	assert.Equal(t, int64(500), rows[2].PointsRequired)
}
