package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter installs the shared Redis client used by the rate
// limiting middleware. A nil client leaves the middleware fail-open.
func InitRedisRateLimiter(client *redis.Client) {
	redisClient = client
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return limitBy(maxRequests, window, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// SubjectRateLimit rate-limits per authenticated subject instead of per IP.
// Must run after JWT(); falls back to the client IP when unauthenticated.
func SubjectRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return limitBy(maxRequests, window, func(c *gin.Context) string {
		if subject := c.GetString(CtxSubject); subject != "" {
			return "sub:" + subject
		}
		return c.ClientIP()
	})
}

func limitBy(maxRequests int, window time.Duration, ident func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// fallback to allowing requests if Redis not configured
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident(c)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// on Redis error, fail-open (allow) but set header
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			// first increment, set expiry
			redisClient.Expire(ctx, key, window)
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()

		c.Next()
	}
}
