package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring/config"
)

func TestNewRedisClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewRedisClient(&config.RedisConfig{URL: "redis://" + server.Addr() + "/0", DB: 2})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 2, client.Options().DB)

	healthy := HealthCheck(client)
	assert.True(t, healthy())

	server.Close()
	assert.False(t, healthy())
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(&config.RedisConfig{URL: "not a url"})
	assert.Error(t, err)

	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err = NewRedisClient(&config.RedisConfig{URL: "redis://" + addr})
	assert.Error(t, err)
}
