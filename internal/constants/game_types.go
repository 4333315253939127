package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// GameType scopes clan membership exclusivity.
type GameType string

const (
	GameTypeAirsoft   GameType = "Airsoft"
	GameTypePaintball GameType = "Paintball"
)

var AllGameTypes = []GameType{GameTypeAirsoft, GameTypePaintball}

func (g GameType) String() string { return string(g) }

func (g GameType) IsValid() bool {
	for _, known := range AllGameTypes {
		if g == known {
			return true
		}
	}
	return false
}

// ParseGameType accepts any casing ("airsoft", "PAINTBALL").
func ParseGameType(s string) (GameType, error) {
	for _, known := range AllGameTypes {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown game type %q", s)
}

// Scan implements the sql.Scanner interface
func (g *GameType) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*g = ""
	case string:
		*g = GameType(v)
	case []byte:
		*g = GameType(v)
	default:
		return fmt.Errorf("GameType: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (g GameType) Value() (driver.Value, error) { return string(g), nil }
