// Package lock provides cross-instance locks backed by redis.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/recurring/internal/application/adapter"
)

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker implements the adapter.Locker interface using SET NX.
type redisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a new redis-backed locker.
func NewRedisLocker(client *redis.Client) adapter.Locker {
	return &redisLocker{client: client}
}

// TryLock takes key for ttl without blocking.
func (l *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The caller's context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			slog.Warn("Failed to release lock", "key", key, "error", err)
		}
	}

	return release, true, nil
}
