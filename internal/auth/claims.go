package auth

// UserClaims is what handlers know about the caller.
type UserClaims interface {
	UserID() string
	Role() string
	Source() string
	IsAdmin() bool
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// JWTClaims are built from a verified bearer token.
type JWTClaims struct {
	UserUUID  string
	RoleValue string
}

func (c *JWTClaims) UserID() string { return c.UserUUID }
func (c *JWTClaims) Role() string   { return c.RoleValue }
func (c *JWTClaims) Source() string { return "JWT" }
func (c *JWTClaims) IsAdmin() bool  { return c.RoleValue == RoleAdmin }
