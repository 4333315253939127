package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: expired token")
)

const tokenIssuer = "clanhub"

type TokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret   []byte
	expiry   time.Duration
	adminIDs []string
	now      func() time.Time
}

// NewTokenManager marks users in adminIDs as admins when their tokens are verified.
func NewTokenManager(secret string, expiry time.Duration, adminIDs []string) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		expiry:   expiry,
		adminIDs: adminIDs,
		now:      time.Now,
	}
}

func (m *TokenManager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("auth: user id is required")
	}
	now := m.now()
	role := RoleUser
	if slices.Contains(m.adminIDs, userID) {
		role = RoleAdmin
	}

	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the token and returns claims for the request context. The
// admin flag comes from configuration, not from the token.
func (m *TokenManager) Validate(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	role := RoleUser
	if slices.Contains(m.adminIDs, claims.UserID) {
		role = RoleAdmin
	}
	return &JWTClaims{UserUUID: claims.UserID, RoleValue: role}, nil
}
