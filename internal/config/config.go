package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logo      LogoConfig
	Ranks     RankConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
}

// RedisConfig is optional. An empty Host keeps locking in-process.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type CacheConfig struct {
	TTL time.Duration
}

type AuthConfig struct {
	JWTSecret    string
	TokenExpiry  time.Duration
	AdminUserIDs []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogoConfig struct {
	Dir     string
	BaseURL string
}

type RankConfig struct {
	RefreshInterval time.Duration
}

// Load reads .env.<env> when present, then the process environment.
func Load(env string) (*Config, error) {
	if err := loadEnvFile(env); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  env,
			Port: getEnvAsInt("APP_PORT", 8080),
		},
		Postgres: loadPostgres(),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", "5m"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenExpiry:  getEnvAsDuration("JWT_EXPIRY", "24h"),
			AdminUserIDs: getEnvAsSlice("ADMIN_USER_IDS", nil),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Logo: LogoConfig{
			Dir:     getEnv("LOGO_DIR", "./data/logos"),
			BaseURL: getEnv("LOGO_BASE_URL", "/static/logos"),
		},
		Ranks: RankConfig{
			RefreshInterval: getEnvAsDuration("RANK_REFRESH_INTERVAL", "10m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadPostgres reads only the database settings, for tools that do not serve HTTP.
func LoadPostgres(env string) (*PostgresConfig, error) {
	if err := loadEnvFile(env); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	pg := loadPostgres()
	if pg.User == "" || pg.DB == "" {
		return nil, fmt.Errorf("invalid configuration: PG_USER and PG_DB are required")
	}
	return &pg, nil
}

func loadPostgres() PostgresConfig {
	return PostgresConfig{
		Host:     getEnv("PG_HOST", "localhost"),
		Port:     getEnvAsInt("PG_PORT", 5432),
		User:     getEnv("PG_USER", ""),
		Password: getEnv("PG_PASSWORD", ""),
		DB:       getEnv("PG_DB", ""),
	}
}

func loadEnvFile(env string) error {
	envFile := fmt.Sprintf(".env.%s", env)
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(envFile)
}

func (c *Config) Validate() error {
	var problems []string

	if c.App.Port < 1 || c.App.Port > 65535 {
		problems = append(problems, "APP_PORT out of range")
	}
	if c.Postgres.User == "" {
		problems = append(problems, "PG_USER is required")
	}
	if c.Postgres.DB == "" {
		problems = append(problems, "PG_DB is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters")
	}
	if c.Cache.TTL <= 0 {
		problems = append(problems, "CACHE_TTL must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		problems = append(problems, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.Ranks.RefreshInterval <= 0 {
		problems = append(problems, "RANK_REFRESH_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, ", "))
	}
	return nil
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) PostgresDSN() string {
	return c.Postgres.DSN()
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DB,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, defaultValue)); err == nil {
		return d
	}
	if d, err := time.ParseDuration(defaultValue); err == nil {
		return d
	}
	return 0
}
