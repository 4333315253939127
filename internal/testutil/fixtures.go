package testutil

import (
	"testing"

	"tacticalops/clanhub/internal/constants"
	gormModels "tacticalops/clanhub/internal/models/gorm"

	"gorm.io/gorm"
)

// SeedFields registers fields for a state and game type.
func SeedFields(t *testing.T, gdb *gorm.DB, state string, gameType constants.GameType, names ...string) {
	t.Helper()
	for _, name := range names {
		f := gormModels.Field{State: state, GameType: gameType, Name: name}
		if err := gdb.Create(&f).Error; err != nil {
			t.Fatalf("Failed to seed field %s: %v", name, err)
		}
	}
}

// SeedPlayer inserts a player profile.
func SeedPlayer(t *testing.T, gdb *gorm.DB, p gormModels.Player) {
	t.Helper()
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("Failed to seed player %s: %v", p.ID, err)
	}
}
