package db

import (
	"fmt"

	"tacticalops/clanhub/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}
