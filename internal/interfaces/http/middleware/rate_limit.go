// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/config"
)

// RateLimit implements a fixed one-minute window per client IP in Redis.
// Requests pass when Redis is unavailable.
func RateLimit(cfg *config.Config, redisClient *redis.Client, logger logrus.FieldLogger) gin.HandlerFunc {
	limit := cfg.Security.RateLimitPerMinute + cfg.Security.RateLimitBurst

	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		current, err := redisClient.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		if current >= limit {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message_key": "rate.limit.msg",
				"retry_after": 60,
			})
			return
		}

		pipe := redisClient.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.WithError(err).Warn("failed to record request for rate limiting")
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-current-1, 0)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))

		c.Next()
	}
}
