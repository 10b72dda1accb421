package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/pageza/nutrinavigator/backend/internal/pkg/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per key
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (Decision, error)
	Config() RateLimitConfig
}

// RejectFunc writes the response for a request that exceeded its limit
type RejectFunc func(c *gin.Context, d Decision, cfg RateLimitConfig)

// RedisRateLimiter is a fixed window limiter shared by every instance using the same Redis
type RedisRateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisRateLimiter creates a new Redis backed rate limiter
func NewRedisRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:  redisClient,
		config: config,
	}
}

func (rl *RedisRateLimiter) Config() RateLimitConfig { return rl.config }

// IsAllowed increments the counter for key in the current window
func (rl *RedisRateLimiter) IsAllowed(ctx context.Context, key string) (Decision, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: remaining,
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// MemoryRateLimiter keeps a token bucket per key in process. Used when Redis is not
// configured; limits are per instance.
type MemoryRateLimiter struct {
	config    RateLimitConfig
	every     rate.Limit
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastPrune time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryRateLimiter creates a new in-process rate limiter
func NewMemoryRateLimiter(config RateLimitConfig) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		config:  config,
		every:   rate.Every(config.Window / time.Duration(config.Limit)),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (rl *MemoryRateLimiter) Config() RateLimitConfig { return rl.config }

// IsAllowed takes one token from the bucket for key
func (rl *MemoryRateLimiter) IsAllowed(_ context.Context, key string) (Decision, error) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.prune(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.every, rl.config.Limit)}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	reset := now
	if tokens < 1 {
		wait := time.Duration((1 - tokens) * float64(time.Second) / float64(rl.every))
		reset = now.Add(wait)
	}

	return Decision{
		Allowed:   allowed,
		Limit:     rl.config.Limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		Reset:     reset,
	}, nil
}

// prune drops buckets idle for a full window; a dropped bucket would be full again anyway.
func (rl *MemoryRateLimiter) prune(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.config.Window {
		return
	}
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.config.Window {
			delete(rl.buckets, key)
		}
	}
	rl.lastPrune = now
}

// NewRecommendationRateLimiter limits recommendation submissions per client. Redis is
// used when a client is given, otherwise the in-process limiter.
func NewRecommendationRateLimiter(redisClient *redis.Client, limitPerHour int) Limiter {
	cfg := RateLimitConfig{
		Window:    time.Hour,
		Limit:     limitPerHour,
		KeyPrefix: "rate_limit:recommendations",
	}
	if redisClient != nil {
		return NewRedisRateLimiter(redisClient, cfg)
	}
	return NewMemoryRateLimiter(cfg)
}

// JSONReject answers a limited request with a JSON 429
func JSONReject(c *gin.Context, d Decision, cfg RateLimitConfig) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":                "rate limit exceeded",
		"message":              fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
		"rate_limit_remaining": d.Remaining,
		"rate_limit_reset":     d.Reset.Unix(),
		"retry_after":          RetryAfter(d),
	})
}

// RetryAfter returns the whole seconds until the limit resets
func RetryAfter(d Decision) int {
	secs := int(math.Ceil(time.Until(d.Reset).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting per client IP.
// Limiter errors are logged and the request is let through.
func RateLimitMiddleware(limiter Limiter, log *logger.Logger, reject RejectFunc) gin.HandlerFunc {
	if reject == nil {
		reject = JSONReject
	}
	cfg := limiter.Config()

	return func(c *gin.Context) {
		d, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("rate limit check failed", "error", err, "request_id", c.GetString(RequestIDKey))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(RetryAfter(d)))
			reject(c, d, cfg)
			c.Abort()
			return
		}

		c.Next()
	}
}
