// internal/api/ratelimit.go
package api

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a per-user request budget.
type RateLimiter struct {
	mu                sync.Mutex
	limiters          map[string]*rate.Limiter
	requestsPerSecond float64
	burstSize         int
}

// NewRateLimiter creates a limiter map with the given per-user budget.
func NewRateLimiter(requestsPerSecond float64, burstSize int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 25
	}
	if burstSize <= 0 {
		burstSize = 50
	}
	return &RateLimiter{
		limiters:          make(map[string]*rate.Limiter),
		requestsPerSecond: requestsPerSecond,
		burstSize:         burstSize,
	}
}

// Allow reports whether the user may make another request now.
func (rl *RateLimiter) Allow(user string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// MEMORY PROTECTION: prevent unlimited growth
	if len(rl.limiters) >= 10000 {
		rl.limiters = make(map[string]*rate.Limiter)
	}

	limiter, exists := rl.limiters[user]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.requestsPerSecond), rl.burstSize)
		rl.limiters[user] = limiter
	}

	return limiter.Allow()
}
