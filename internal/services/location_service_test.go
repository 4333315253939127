package services

import (
	"context"
	"errors"
	"testing"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDictionary struct {
	fieldsFor func(state string, gameType constants.GameType) ([]string, error)
	calls     int
}

func (f *fakeDictionary) FieldsFor(ctx context.Context, state string, gameType constants.GameType) ([]string, error) {
	f.calls++
	return f.fieldsFor(state, gameType)
}

func texasDictionary() *fakeDictionary {
	return &fakeDictionary{fieldsFor: func(state string, gameType constants.GameType) ([]string, error) {
		if state == "Texas" && gameType == constants.GameTypeAirsoft {
			return []string{"Austin CQB", "Dallas Woods", "Fort Hood Range"}, nil
		}
		return nil, nil
	}}
}

func texasClan() *entities.Clan {
	return &entities.Clan{
		ID:             "c1",
		Name:           "Ghosts",
		GameType:       constants.GameTypeAirsoft,
		State:          "Texas",
		SecondaryBases: []string{},
	}
}

func ptr(s string) *string { return &s }

func TestLocationSelector_ValidFields(t *testing.T) {
	ctx := context.Background()

	t.Run("all states never hits the dictionary", func(t *testing.T) {
		dict := texasDictionary()
		fields, err := NewLocationSelector(dict).ValidFields(ctx, constants.AllRegions, constants.GameTypeAirsoft)
		require.NoError(t, err)
		assert.Empty(t, fields)
		assert.Equal(t, 0, dict.calls)
	})

	t.Run("known pair", func(t *testing.T) {
		fields, err := NewLocationSelector(texasDictionary()).ValidFields(ctx, "Texas", constants.GameTypeAirsoft)
		require.NoError(t, err)
		assert.Equal(t, []string{"Austin CQB", "Dallas Woods", "Fort Hood Range"}, fields)
	})

	t.Run("no fields is an empty list", func(t *testing.T) {
		fields, err := NewLocationSelector(texasDictionary()).ValidFields(ctx, "Maine", constants.GameTypePaintball)
		require.NoError(t, err)
		assert.NotNil(t, fields)
		assert.Empty(t, fields)
	})

	t.Run("unknown state", func(t *testing.T) {
		_, err := NewLocationSelector(texasDictionary()).ValidFields(ctx, "Atlantis", constants.GameTypeAirsoft)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		assert.Equal(t, "state", apperr.FieldOf(err))
	})

	t.Run("unknown game type", func(t *testing.T) {
		_, err := NewLocationSelector(texasDictionary()).ValidFields(ctx, "Texas", constants.GameType("Laser Tag"))
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		assert.Equal(t, "game_type", apperr.FieldOf(err))
	})

	t.Run("dictionary failure is a transport error", func(t *testing.T) {
		dict := &fakeDictionary{fieldsFor: func(string, constants.GameType) ([]string, error) {
			return nil, errors.New("timeout")
		}}
		_, err := NewLocationSelector(dict).ValidFields(ctx, "Texas", constants.GameTypeAirsoft)
		assert.True(t, errors.Is(err, apperr.ErrTransport))
	})
}

func TestLocationSelector_SetPrimaryDropsItFromSecondary(t *testing.T) {
	sel := NewLocationSelector(texasDictionary())
	clan := texasClan()
	clan.SecondaryBases = []string{"Austin CQB", "Dallas Woods"}

	require.NoError(t, sel.SetPrimary(context.Background(), clan, "Austin CQB"))

	require.NotNil(t, clan.PrimaryBase)
	assert.Equal(t, "Austin CQB", *clan.PrimaryBase)
	assert.Equal(t, []string{"Dallas Woods"}, clan.SecondaryBases)
}

func TestLocationSelector_SetPrimaryRejectsUnknownField(t *testing.T) {
	sel := NewLocationSelector(texasDictionary())
	clan := texasClan()
	clan.PrimaryBase = ptr("Dallas Woods")

	err := sel.SetPrimary(context.Background(), clan, "Vegas Arena")

	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, "primary_base", apperr.FieldOf(err))
	assert.Equal(t, "Dallas Woods", *clan.PrimaryBase)
}

func TestLocationSelector_SetPrimaryNeedsAState(t *testing.T) {
	dict := texasDictionary()
	clan := texasClan()
	clan.State = constants.AllRegions

	err := NewLocationSelector(dict).SetPrimary(context.Background(), clan, "Austin CQB")

	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Nil(t, clan.PrimaryBase)
	assert.Equal(t, 0, dict.calls)
}

func TestLocationSelector_SetPrimaryEmptyClears(t *testing.T) {
	clan := texasClan()
	clan.PrimaryBase = ptr("Austin CQB")

	require.NoError(t, NewLocationSelector(texasDictionary()).SetPrimary(context.Background(), clan, ""))
	assert.Nil(t, clan.PrimaryBase)
}

func TestLocationSelector_SetSecondary(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts valid fields", func(t *testing.T) {
		clan := texasClan()
		clan.PrimaryBase = ptr("Austin CQB")
		require.NoError(t, NewLocationSelector(texasDictionary()).SetSecondary(ctx, clan, []string{"Dallas Woods", "Fort Hood Range"}))
		assert.Equal(t, []string{"Dallas Woods", "Fort Hood Range"}, clan.SecondaryBases)
	})

	rejected := map[string][]string{
		"overlaps primary": {"Austin CQB"},
		"duplicate":        {"Dallas Woods", "Dallas Woods"},
		"unknown field":    {"Vegas Arena"},
		"empty entry":      {""},
		"too many": {
			"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k",
		},
	}
	for name, fields := range rejected {
		t.Run(name, func(t *testing.T) {
			clan := texasClan()
			clan.PrimaryBase = ptr("Austin CQB")
			clan.SecondaryBases = []string{"Fort Hood Range"}

			err := NewLocationSelector(texasDictionary()).SetSecondary(ctx, clan, fields)

			assert.True(t, errors.Is(err, apperr.ErrValidation))
			assert.Equal(t, "secondary_bases", apperr.FieldOf(err))
			assert.Equal(t, []string{"Fort Hood Range"}, clan.SecondaryBases)
		})
	}

	t.Run("empty list skips the dictionary", func(t *testing.T) {
		dict := texasDictionary()
		clan := texasClan()
		clan.SecondaryBases = []string{"Dallas Woods"}
		require.NoError(t, NewLocationSelector(dict).SetSecondary(ctx, clan, nil))
		assert.Equal(t, []string{}, clan.SecondaryBases)
		assert.Equal(t, 0, dict.calls)
	})
}

func TestLocationSelector_ChangeState(t *testing.T) {
	sel := NewLocationSelector(texasDictionary())

	t.Run("new state clears bases", func(t *testing.T) {
		clan := texasClan()
		clan.PrimaryBase = ptr("Austin CQB")
		clan.SecondaryBases = []string{"Dallas Woods"}

		require.NoError(t, sel.ChangeState(clan, "Nevada"))
		assert.Equal(t, "Nevada", clan.State)
		assert.Nil(t, clan.PrimaryBase)
		assert.Empty(t, clan.SecondaryBases)
	})

	t.Run("same state keeps bases", func(t *testing.T) {
		clan := texasClan()
		clan.PrimaryBase = ptr("Austin CQB")

		require.NoError(t, sel.ChangeState(clan, "Texas"))
		assert.Equal(t, "Austin CQB", *clan.PrimaryBase)
	})

	t.Run("unknown state leaves clan unchanged", func(t *testing.T) {
		clan := texasClan()
		clan.PrimaryBase = ptr("Austin CQB")

		err := sel.ChangeState(clan, "Gondor")
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		assert.Equal(t, "Texas", clan.State)
		assert.NotNil(t, clan.PrimaryBase)
	})
}
