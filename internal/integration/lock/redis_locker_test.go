package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*miniredis.Miniredis, *redisLocker) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, NewRedisLocker(client).(*redisLocker)
}

func TestRedisLocker_TryLock(t *testing.T) {
	server, locker := newTestLocker(t)
	ctx := context.Background()

	release, acquired, err := locker.TryLock(ctx, "recurring:process:a", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.True(t, server.Exists("recurring:process:a"))
	assert.Equal(t, time.Minute, server.TTL("recurring:process:a"))

	_, acquired, err = locker.TryLock(ctx, "recurring:process:a", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired, "a held key cannot be taken twice")

	otherRelease, acquired, err := locker.TryLock(ctx, "recurring:process:b", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "keys are independent")
	otherRelease()

	release()
	assert.False(t, server.Exists("recurring:process:a"))

	release, acquired, err = locker.TryLock(ctx, "recurring:process:a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "a released key can be taken again")
	release()
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	server, locker := newTestLocker(t)
	ctx := context.Background()

	staleRelease, acquired, err := locker.TryLock(ctx, "recurring:process:a", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	server.FastForward(2 * time.Second)
	require.False(t, server.Exists("recurring:process:a"), "the lock expires with its ttl")

	release, acquired, err := locker.TryLock(ctx, "recurring:process:a", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	staleRelease()
	assert.True(t, server.Exists("recurring:process:a"), "an expired owner must not release the new owner's lock")

	release()
	assert.False(t, server.Exists("recurring:process:a"))
}

func TestRedisLocker_Unavailable(t *testing.T) {
	server, locker := newTestLocker(t)
	server.Close()

	release, acquired, err := locker.TryLock(context.Background(), "recurring:process:a", time.Minute)

	assert.Error(t, err)
	assert.False(t, acquired)
	assert.Nil(t, release)
}
