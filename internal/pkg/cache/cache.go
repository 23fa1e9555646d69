package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PostFox/internal/pkg/env"
)

var (
	client    *redis.Client
	available bool
	mu        sync.RWMutex
)

// SetupCache connects to the Redis server used for events, prompt counters
// and rate limiting. An unreachable server is logged, not fatal.
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       env.GetEnvInt("CACHE_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pong, err := c.Ping(ctx).Result()

	mu.Lock()
	client = c
	available = err == nil
	mu.Unlock()

	if err != nil {
		log.Warnf("[Cache] Could not connect to Redis at %s:%s: %v", host, port, err)
		return
	}
	log.Infof("[Cache] Connected to Redis at %s:%s: %s", host, port, pong)
}

// GetClient returns the Redis client, connecting on first use.
func GetClient() *redis.Client {
	mu.RLock()
	c := client
	mu.RUnlock()
	if c == nil {
		SetupCache()
		mu.RLock()
		c = client
		mu.RUnlock()
	}
	return c
}

// Available reports whether the last connection attempt succeeded.
func Available() bool {
	mu.RLock()
	defer mu.RUnlock()
	return available
}

// Close releases the client.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	available = false
	return err
}
