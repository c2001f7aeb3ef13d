package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"identity-service/internal/logger"
)

const rateLimitMessage = "Too many requests, please try again later."

// Counter tracks request counts per key within a fixed window.
type Counter interface {
	// Incr increments the count for key and returns the new value. The
	// key expires once the window passes.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps requests per client IP inside a fixed window. On
// counter failure the request is allowed through; losing rate limiting
// is preferable to losing logins.
func RateLimit(counter Counter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), bucket)

		n, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limit counter unavailable", map[string]any{
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": rateLimitMessage,
			})
			return
		}

		c.Next()
	}
}

// RedisCounter counts in Redis so the limit holds across replicas.
type RedisCounter struct {
	Client *goredis.Client
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.Client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// MemoryCounter is a single-process Counter used in tests and when no
// Redis address is configured.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	expiry map[string]time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		counts: make(map[string]int64),
		expiry: make(map[string]time.Time),
	}
}

func (m *MemoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if exp, ok := m.expiry[key]; ok && now.After(exp) {
		delete(m.counts, key)
		delete(m.expiry, key)
	}

	if _, ok := m.counts[key]; !ok {
		m.expiry[key] = now.Add(window)
	}
	m.counts[key]++
	return m.counts[key], nil
}
