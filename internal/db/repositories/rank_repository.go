package repositories

import (
	"context"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// RankRepo reads the rank table with a plain query; it is reference data and
// never written by the service.
type RankRepo struct {
	db *sqlx.DB
}

func NewRankRepo(db *sqlx.DB) *RankRepo {
	return &RankRepo{db}
}

func (r *RankRepo) LoadRanks(ctx context.Context) ([]entities.RankRow, error) {
	var rows []entities.RankRow
	if err := r.db.SelectContext(ctx, &rows, constants.GetRankTable); err != nil {
		return nil, apperr.Transport("load rank table", err)
	}
	return rows, nil
}
