package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures a fixed-window limiter keyed by client IP.
type RateLimitConfig struct {
	Client *redis.Client
	// Scope separates counters of independently limited route groups.
	Scope    string
	Requests int
	Window   time.Duration
	Logger   hclog.Logger
	// OnLimited is called for every rejected request.
	OnLimited func(c *gin.Context)
}

// RateLimit rejects requests with 429 once a client exceeds Requests within
// Window. Redis failures let the request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", cfg.Scope, c.ClientIP())

		count, err := cfg.Client.Incr(ctx, key).Result()
		if err != nil {
			cfg.Logger.Warn("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := cfg.Client.Expire(ctx, key, cfg.Window).Err(); err != nil {
				cfg.Logger.Warn("failed to set rate limit window", "key", key, "error", err)
			}
		}

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			ttl, err := cfg.Client.TTL(ctx, key).Result()
			if err != nil || ttl <= 0 {
				ttl = cfg.Window
			}
			c.Header("Retry-After", strconv.Itoa(int((ttl+time.Second-1)/time.Second)))
			if cfg.OnLimited != nil {
				cfg.OnLimited(c)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
