package constants

import "time"

// Clan field bounds.
const (
	MaxClanNameLen        = 50
	MinClanTagLen         = 2
	MaxClanTagLen         = 6
	MaxClanDescriptionLen = 500
	MaxSecondaryBases     = 10
	MaxAchievementLen     = 120

	// One leadership per game type.
	MaxLeadershipsPerUser = 2
)

// Listing bounds.
const (
	DefaultPageSize    = 20
	MaxPageSize        = 100
	DefaultTopN        = 10
	MaxTopN            = 100
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

const DefaultClanCacheTTL = 5 * time.Minute
