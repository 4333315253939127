package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tacticalops/clanhub/internal/logging"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("lock: timed out waiting for key")

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX so several service instances
// serialize mutations on the same clan.
type RedisLocker struct {
	client  redis.UniversalClient
	prefix  string
	lease   time.Duration
	retry   time.Duration
	maxWait time.Duration
}

func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	return &RedisLocker{
		client:  client,
		prefix:  prefix,
		lease:   10 * time.Second,
		retry:   25 * time.Millisecond,
		maxWait: 5 * time.Second,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.lease).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		// Release with a fresh context: the caller's may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			logging.Warn("Failed to release redis lock", "key", redisKey, "error", err.Error())
		}
	}, nil
}
