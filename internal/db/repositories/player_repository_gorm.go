package repositories

import (
	"context"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/models/entities"
	gormModels "tacticalops/clanhub/internal/models/gorm"

	"gorm.io/gorm"
)

type PlayerRepositoryGORM struct {
	db *gorm.DB
}

func NewPlayerRepositoryGORM(db *gorm.DB) *PlayerRepositoryGORM {
	return &PlayerRepositoryGORM{db: db}
}

// GetByIDs returns the players found, keyed by id. Unknown ids are skipped.
func (r *PlayerRepositoryGORM) GetByIDs(ctx context.Context, ids []string) (map[string]entities.Player, error) {
	out := make(map[string]entities.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []gormModels.Player
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperr.Transport("load players", err)
	}

	for _, row := range rows {
		out[row.ID] = entities.Player{
			ID:            row.ID,
			DisplayName:   row.DisplayName,
			HumanRank:     row.HumanRank,
			HumanPoints:   row.HumanPoints,
			AlienRank:     row.AlienRank,
			AlienPoints:   row.AlienPoints,
			MissionsTotal: row.MissionsTotal,
			Achievements:  nonNil([]string(row.Achievements)),
		}
	}
	return out, nil
}
