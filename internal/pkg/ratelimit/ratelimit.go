package ratelimit

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/PostFox/internal/pkg/cache"
	"github.com/ManuelReschke/PostFox/internal/pkg/env"
)

// limiterDatabase keeps limiter keys apart from events and counters (DB 0).
const limiterDatabase = 1

// Config tunes the API limiter.
type Config struct {
	Max          int
	Expiration   time.Duration
	KeyGenerator func(*fiber.Ctx) string
	// Storage overrides the Redis storage, mainly for tests.
	Storage fiber.Storage
}

// NewStorage returns Redis-backed limiter storage sharing the cache server,
// or nil when Redis is unreachable so the limiter falls back to memory.
func NewStorage() fiber.Storage {
	if !cache.Available() {
		log.Warn("[RateLimit] Redis unavailable, using in-memory limiter storage")
		return nil
	}

	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: limiterDatabase,
		Reset:    false,
	})
}

// New builds the limiter middleware. Rejected requests get the JSON error
// shape used by every API handler.
func New(cfg Config) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = env.GetEnvInt("API_RATE_LIMIT", 60)
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = env.GetEnvDuration("API_RATE_WINDOW", time.Minute)
	}

	lc := limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "too_many_requests",
				"message": "Rate limit exceeded, try again later",
			})
		},
	}
	if cfg.KeyGenerator != nil {
		lc.KeyGenerator = cfg.KeyGenerator
	}
	if cfg.Storage != nil {
		lc.Storage = cfg.Storage
	}
	return limiter.New(lc)
}
