package common

import (
	"context"
	"time"

	"tacticalops/clanhub/internal/logging"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, password string) *redis.Client {
	logging.Info("Initializing Redis client", "addr", addr)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// The pool keeps retrying; locking calls will surface errors until Redis is up.
		logging.Error("Failed to ping Redis", "addr", addr, "error", err.Error())
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
