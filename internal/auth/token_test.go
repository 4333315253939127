package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_IssueAndValidate(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, []string{"boss"})

	token, err := m.Issue("player-1")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "player-1", claims.UserID())
	assert.Equal(t, RoleUser, claims.Role())
	assert.False(t, claims.IsAdmin())
	assert.Equal(t, "JWT", claims.Source())

	token, err = m.Issue("boss")
	require.NoError(t, err)
	claims, err = m.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, nil)
	start := time.Now()
	m.now = func() time.Time { return start }

	token, err := m.Issue("player-1")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, nil)

	other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour, nil)
	token, err := other.Issue("player-1")
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{UserID: "player-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDFrom(t *testing.T) {
	assert.Equal(t, "", UserIDFrom(context.Background()))

	ctx := SetUserClaims(context.Background(), &JWTClaims{UserUUID: "player-1"})
	assert.Equal(t, "player-1", UserIDFrom(ctx))
}
