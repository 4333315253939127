package repositories

import (
	"context"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	gormModels "tacticalops/clanhub/internal/models/gorm"

	"gorm.io/gorm"
)

// FieldRepositoryGORM is the field dictionary backed by the fields table.
type FieldRepositoryGORM struct {
	db *gorm.DB
}

func NewFieldRepositoryGORM(db *gorm.DB) *FieldRepositoryGORM {
	return &FieldRepositoryGORM{db: db}
}

func (r *FieldRepositoryGORM) FieldsFor(ctx context.Context, state string, gameType constants.GameType) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&gormModels.Field{}).
		Where("state = ? AND game_type = ?", state, gameType).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, apperr.Transport("load fields", err)
	}
	return names, nil
}
