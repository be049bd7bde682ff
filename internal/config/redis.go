package config

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connectivity check so a dead Redis
// cannot stall boot.
const redisPingTimeout = 2 * time.Second

// redisAddr resolves the server address. An explicit REDIS_HOST/REDIS_PORT
// pair wins over the REDIS_ADDR shorthand; with neither set the local
// default applies.
func redisAddr() string {
	host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// NewRedisClient builds the client backing the auth rate limiter from
// REDIS_* variables (REDIS_PASSWORD, REDIS_DB, REDIS_TLS) and verifies it
// with a bounded ping. Nil means Redis is unreachable; the limiter then
// runs as a passthrough instead of blocking startup.
func NewRedisClient() *redis.Client {
	opts := &redis.Options{
		Addr:     redisAddr(),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
