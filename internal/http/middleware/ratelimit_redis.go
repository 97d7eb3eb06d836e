package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"todo_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and RedisRateLimit falls back to the in-process limiter.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiting", "addr", addr, "error", err)
		redisClient = nil
		return
	}
	logger.Info("redis rate limiter connected", "addr", addr)
}

// CloseRedisRateLimiter releases the shared client.
func CloseRedisRateLimiter() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// RedisStatus reports the limiter backend for readiness checks: "disabled"
// when running on the in-process fallback, else the result of a PING.
func RedisStatus(ctx context.Context) (string, error) {
	if redisClient == nil {
		return "disabled", nil
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return "", err
	}
	return "healthy", nil
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: todo_rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	fallback := SimpleRateLimit(maxRequests, window)
	return func(c *gin.Context) {
		if redisClient == nil {
			fallback(c)
			return
		}

		key := "todo_rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + clientKey(c)
		if !allowRedis(c, key, maxRequests, window) {
			return
		}
		c.Next()
	}
}

// MutationRateLimit limits writes per authenticated client (or per IP when
// auth is off). Requires JWT middleware to run before this.
func MutationRateLimit(maxWrites int, window time.Duration) gin.HandlerFunc {
	fallback := SimpleRateLimit(maxWrites, window)
	return func(c *gin.Context) {
		if redisClient == nil {
			fallback(c)
			return
		}

		key := "todo_write_rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + clientKey(c)
		if !allowRedis(c, key, maxWrites, window) {
			return
		}
		c.Next()
	}
}

// allowRedis counts the request under key and aborts with 429 over the limit.
// Redis errors fail open.
func allowRedis(c *gin.Context, key string, limit int, window time.Duration) bool {
	ctx := c.Request.Context()

	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		return true
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(limit)-val), 10))

	if val > int64(limit) {
		RLBlocked.WithLabelValues(c.FullPath()).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded",
			"retry_after": int(window.Seconds()),
		})
		return false
	}

	RLRequests.WithLabelValues(c.FullPath()).Inc()
	return true
}

// clientKey identifies the caller: the JWT client id when present, else the IP.
func clientKey(c *gin.Context) string {
	if v, ok := c.Get(ClientIDKey); ok {
		if id, ok := v.(int64); ok {
			return "client:" + strconv.FormatInt(id, 10)
		}
	}
	return "ip:" + c.ClientIP()
}
