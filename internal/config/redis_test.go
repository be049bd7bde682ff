package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisAddrResolution(t *testing.T) {
	assert.Equal(t, "localhost:6379", redisAddr())

	t.Setenv("REDIS_ADDR", "cache.internal:6380")
	assert.Equal(t, "cache.internal:6380", redisAddr())

	// An explicit host/port pair wins over the shorthand.
	t.Setenv("REDIS_HOST", "redis-primary")
	t.Setenv("REDIS_PORT", "7000")
	assert.Equal(t, "redis-primary:7000", redisAddr())

	// Host without port is incomplete and falls through to the shorthand.
	t.Setenv("REDIS_PORT", "")
	assert.Equal(t, "cache.internal:6380", redisAddr())
}
