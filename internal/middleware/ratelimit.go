package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Counter 在一个时间窗口内对 key 计数，返回递增后的值
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter 用 INCR + EXPIRE 实现固定窗口计数
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter 创建 RedisCounter
func NewRedisCounter(client *redis.Client) *RedisCounter {
	if client == nil {
		panic("Redis client cannot be nil for RedisCounter")
	}
	return &RedisCounter{client: client}
}

// Incr 实现 Counter。
// 只在第一次计数时设置过期时间，窗口不会被后续请求续期。
func (rc *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := rc.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: incr %s: %w", key, err)
	}
	if count == 1 {
		if err := rc.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("redis: expire %s: %w", key, err)
		}
	}
	return count, nil
}

// RateLimit 返回一个 Gin 中间件，按客户端 IP 做固定窗口限流。
// counter 出错时放行请求，只记录日志。
func RateLimit(counter Counter, keyPrefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if counter == nil {
		panic("counter cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}
	limit := strconv.Itoa(maxRequests)

	return func(c *gin.Context) {
		key := keyPrefix + "ratelimit:" + c.ClientIP()

		count, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			logrus.WithError(err).WithField("key", key).Error("RateLimit: counter failed, letting request through")
			c.Next()
			return
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
