package db

import (
	"fmt"

	gormModels "tacticalops/clanhub/internal/models/gorm"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&gormModels.ClanRank{},
		&gormModels.Field{},
		&gormModels.Player{},
		&gormModels.Clan{},
		&gormModels.ClanMembership{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
