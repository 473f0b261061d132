package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"event-analytics-service/internal/metrics"
)

// KeyedRateLimiter hands out one token bucket per key.
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewKeyedRateLimiter creates a limiter allowing rps requests per second
// per key with the given burst.
func NewKeyedRateLimiter(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// Limiter returns the bucket for key, creating it on first use.
func (rl *KeyedRateLimiter) Limiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists = rl.limiters[key]; !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// RateLimitByParam limits requests per value of the named route parameter.
// Requests without the parameter pass through.
func RateLimitByParam(rl *KeyedRateLimiter, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params(param)
		if key == "" {
			return c.Next()
		}

		if !rl.Limiter(key).Allow() {
			metrics.RateLimitExceeded.Inc()
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded, please try again later")
		}
		return c.Next()
	}
}
