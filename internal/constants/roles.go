package constants

import (
	"database/sql/driver"
	"fmt"
)

// ClanRole mirrors the role column stored on clan_members.
type ClanRole string

const (
	RoleNone          ClanRole = ""
	RoleMember        ClanRole = "member"
	RoleSeniorOfficer ClanRole = "senior_officer"
	RoleLeader        ClanRole = "leader"
)

// Stringer, convenient for fmt / logs
func (r ClanRole) String() string { return string(r) }

// CanManage reports whether the role may run management operations.
func (r ClanRole) CanManage() bool {
	return r == RoleLeader || r == RoleSeniorOfficer
}

/* ---------- DB adapters so sqlx / gorm scan and value cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *ClanRole) Scan(src interface{}) error {
	if src == nil {
		*r = RoleNone
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = ClanRole(v)
	case []byte:
		*r = ClanRole(v)
	default:
		return fmt.Errorf("ClanRole: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r ClanRole) Value() (driver.Value, error) { return string(r), nil }
