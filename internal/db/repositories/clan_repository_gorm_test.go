package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"
	gormModels "tacticalops/clanhub/internal/models/gorm"
	"tacticalops/clanhub/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newClan(name, tag, leader string, gameType constants.GameType, points int64, createdAt time.Time) *entities.Clan {
	return &entities.Clan{
		ID:             uuid.NewString(),
		Name:           name,
		Tag:            tag,
		GameType:       gameType,
		State:          "Texas",
		SecondaryBases: []string{},
		Points:         points,
		LeaderID:       leader,
		MemberIDs:      []string{leader},
		Achievements:   []string{},
		IsActive:       true,
		CreatedAt:      createdAt,
	}
}

func TestClanRepositoryGORM_CreateAndGet(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))
	ctx := context.Background()

	clan := newClan("Ghosts", "GHS", "u1", constants.GameTypeAirsoft, 0, baseTime)
	primary := "Fort Hood Range"
	clan.PrimaryBase = &primary
	clan.SecondaryBases = []string{"Austin CQB", "Dallas Woods"}
	require.NoError(t, repo.Create(ctx, clan))

	got, err := repo.GetByID(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ghosts", got.Name)
	assert.Equal(t, []string{"u1"}, got.MemberIDs)
	assert.Equal(t, []string{"Austin CQB", "Dallas Woods"}, got.SecondaryBases)
	require.NotNil(t, got.PrimaryBase)
	assert.Equal(t, primary, *got.PrimaryBase)
	assert.True(t, got.IsActive)

	m, err := repo.FindMembership(ctx, "u1", constants.GameTypeAirsoft)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, constants.RoleLeader, m.Role)

	none, err := repo.FindMembership(ctx, "u1", constants.GameTypePaintball)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestClanRepositoryGORM_GetByIDNotFound(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestClanRepositoryGORM_UpdateReplacesRosterAndKeepsJoinTime(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))
	ctx := context.Background()

	repo.now = func() time.Time { return baseTime }
	clan := newClan("Ghosts", "GHS", "u1", constants.GameTypeAirsoft, 0, baseTime)
	require.NoError(t, repo.Create(ctx, clan))

	repo.now = func() time.Time { return baseTime.Add(time.Hour) }
	clan.MemberIDs = append(clan.MemberIDs, "u2")
	officer := "u2"
	clan.SeniorOfficerID = &officer
	require.NoError(t, repo.Update(ctx, clan))

	roster, err := repo.Memberships(ctx, clan.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "u1", roster[0].UserID)
	assert.True(t, roster[0].JoinedAt.Equal(baseTime))
	assert.Equal(t, constants.RoleSeniorOfficer, roster[1].Role)
	assert.True(t, roster[1].JoinedAt.Equal(baseTime.Add(time.Hour)))
}

func TestClanRepositoryGORM_UpdateMissingClan(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))

	err := repo.Update(context.Background(), newClan("Nobody", "NOB", "u1", constants.GameTypeAirsoft, 0, baseTime))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestClanRepositoryGORM_UniqueMembershipIndex(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newClan("Ghosts", "GHS", "u1", constants.GameTypeAirsoft, 0, baseTime)))

	// Same leader, same game type: the storage index rejects it even if the engine check is bypassed.
	err := repo.Create(ctx, newClan("Wraiths", "WRT", "u1", constants.GameTypeAirsoft, 0, baseTime))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// A different game type is fine.
	assert.NoError(t, repo.Create(ctx, newClan("Wraiths", "WRT", "u1", constants.GameTypePaintball, 0, baseTime)))
}

func TestClanRepositoryGORM_TopOrdering(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))
	ctx := context.Background()

	older := newClan("Alpha", "ALP", "u1", constants.GameTypeAirsoft, 100, baseTime)
	newer := newClan("Bravo", "BRV", "u2", constants.GameTypeAirsoft, 100, baseTime.Add(time.Minute))
	leader := newClan("Charlie", "CHR", "u3", constants.GameTypeAirsoft, 500, baseTime.Add(2*time.Minute))
	other := newClan("Delta", "DLT", "u4", constants.GameTypePaintball, 900, baseTime)
	for _, c := range []*entities.Clan{newer, leader, older, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	airsoft := constants.GameTypeAirsoft
	top, err := repo.Top(ctx, 10, &airsoft)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, []string{top[0].Name, top[1].Name, top[2].Name})

	all, err := repo.Top(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Delta", all[0].Name)
}

func TestClanRepositoryGORM_ListPagesActiveOnly(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	repo := NewClanRepositoryGORM(gdb)
	ctx := context.Background()

	for i, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		c := newClan(name, name[:3], "u"+name, constants.GameTypeAirsoft, 0, baseTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, c))
	}
	require.NoError(t, gdb.Model(&gormModels.Clan{}).Where("name = ?", "Echo").Update("is_active", false).Error)

	page, total, err := repo.List(ctx, 2, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Equal(t, "Charlie", page[0].Name)
	assert.Equal(t, "Delta", page[1].Name)

	paintball := constants.GameTypePaintball
	empty, total, err := repo.List(ctx, 1, 10, &paintball)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, empty)
}

func TestClanRepositoryGORM_Search(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newClan("Ghosts", "GHS", "u1", constants.GameTypeAirsoft, 0, baseTime)))
	require.NoError(t, repo.Create(ctx, newClan("Ghost_Riders", "GRD", "u2", constants.GameTypePaintball, 0, baseTime)))
	require.NoError(t, repo.Create(ctx, newClan("Hunters", "HNT", "u3", constants.GameTypeAirsoft, 0, baseTime)))

	byName, err := repo.Search(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byTag, err := repo.Search(ctx, "hnt", 10)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Hunters", byTag[0].Name)

	literal, err := repo.Search(ctx, "t_r", 10)
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "Ghost_Riders", literal[0].Name)
}

func TestClanRepositoryGORM_NameAndTagTaken(t *testing.T) {
	repo := NewClanRepositoryGORM(testutil.SetupTestDB(t))
	ctx := context.Background()

	clan := newClan("Ghosts", "GHS", "u1", constants.GameTypeAirsoft, 0, baseTime)
	require.NoError(t, repo.Create(ctx, clan))

	taken, err := repo.NameTaken(ctx, constants.GameTypeAirsoft, "GHOSTS", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NameTaken(ctx, constants.GameTypeAirsoft, "Ghosts", clan.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a clan never conflicts with itself")

	taken, err = repo.TagTaken(ctx, constants.GameTypePaintball, "GHS", "")
	require.NoError(t, err)
	assert.False(t, taken)

	n, err := repo.CountLeaderships(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
