package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"estatehub/api/internal/config"
	"estatehub/api/internal/response"
)

// Limiter is the slice of the redis client the rate limiter needs.
type Limiter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimit bounds requests per client address per fixed window. Excess is
// rejected outright, never queued. Redis errors fail open.
func RateLimit(client Limiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s", c.ClientIP())

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			// a counter without a deadline would throttle the client
			// forever; drop it and skip enforcement
			if err := client.Expire(c.Request.Context(), key, cfg.Window).Err(); err != nil {
				client.Del(c.Request.Context(), key)
				c.Next()
				return
			}
		}

		if count > int64(cfg.Requests) {
			response.TooManyRequests(c, "too many requests from this IP, please try again in an hour")
			return
		}

		c.Next()
	}
}
