package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("PG_USER", "clanhub")
	t.Setenv("PG_DB", "clanhub")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "postgres://clanhub:@localhost:5432/clanhub?sslmode=disable", cfg.PostgresDSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ADMIN_USER_IDS", "a1, a2 ,")
	t.Setenv("REDIS_HOST", "redis")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"a1", "a2"}, cfg.Auth.AdminUserIDs)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "redis:6379", cfg.RedisAddr())
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadPostgres_IgnoresServerSettings(t *testing.T) {
	t.Setenv("PG_USER", "seeder")
	t.Setenv("PG_DB", "clanhub")
	t.Setenv("PG_PORT", "6543")

	pg, err := LoadPostgres("test")
	require.NoError(t, err)
	assert.Equal(t, "postgres://seeder:@localhost:6543/clanhub?sslmode=disable", pg.DSN())
}
