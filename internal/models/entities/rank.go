package entities

// RankRow is one entry of the rank table as stored.
type RankRow struct {
	Level          int    `db:"level"`
	PointsRequired int64  `db:"points_required"`
	Name           string `db:"name"`
}

// RankProgress describes where a points total sits in the rank table.
type RankProgress struct {
	Level        int     `json:"level"`
	Name         string  `json:"name"`
	Points       int64   `json:"points"`
	PointsToNext int64   `json:"points_to_next"`
	Percent      float64 `json:"percent"`
}
