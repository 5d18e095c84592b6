package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tourbase/internal/model"
	"tourbase/internal/pkg/cache"
)

// rateLimitMessage matches what clients have always seen.
const rateLimitMessage = "Too many requests from this IP, please try again in an hour!"

// RateStore counts requests per client within a window. Increment and
// check must be atomic: concurrent requests from one client may race.
type RateStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisRateStore counts in Redis, shared across processes.
type RedisRateStore struct {
	cache *cache.RedisCache
}

// NewRedisRateStore creates a Redis-backed rate store.
func NewRedisRateStore(c *cache.RedisCache) *RedisRateStore {
	return &RedisRateStore{cache: c}
}

// Incr implements RateStore.
func (s *RedisRateStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return s.cache.CountRequest(ctx, key, window)
}

// MemoryRateStore counts in process-local memory. Used when Redis is
// not configured; counters reset on restart.
type MemoryRateStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// NewMemoryRateStore creates an in-memory rate store.
func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{counters: make(map[string]*windowCounter)}
}

// Incr implements RateStore with a mutex-guarded check-and-increment.
func (s *MemoryRateStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.counters[key]
	if !ok || now.After(counter.resetAt) {
		counter = &windowCounter{resetAt: now.Add(window)}
		s.counters[key] = counter
	}
	counter.count++
	return counter.count, nil
}

// RateLimit caps requests per client IP within the window. The store
// failing does not take the API down; the request passes and the
// failure is logged.
func RateLimit(store RateStore, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()

		n, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit store unavailable, letting request through")
			c.Next()
			return
		}

		if n > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				model.Fail(http.StatusTooManyRequests, rateLimitMessage))
			return
		}
		c.Next()
	}
}
