package constants

const (
	GetRankTable = `
	SELECT level, points_required, name FROM clan_ranks ORDER BY level ASC
	`

	InsertRankLevel = `
	INSERT INTO clan_ranks (level, points_required, name) VALUES ($1, $2, $3)
	ON CONFLICT (level) DO UPDATE SET points_required = EXCLUDED.points_required, name = EXCLUDED.name
	`

	InsertField = `
	INSERT INTO fields (state, game_type, name) VALUES ($1, $2, $3)
	ON CONFLICT DO NOTHING
	`
)
