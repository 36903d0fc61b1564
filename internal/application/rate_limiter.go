package application

import (
	"sync"
	"time"

	"github.com/adhcode/estate-backend/internal/domain"
)

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a simple fixed-window rate limiter keyed by caller
// identity, used to throttle visitor registration per household.
type RateLimiter struct {
	limits map[string]*rateLimitEntry
	mu     sync.Mutex
	window time.Duration
	limit  int
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	rl := &RateLimiter{
		limits: make(map[string]*rateLimitEntry),
		window: window,
		limit:  limit,
	}

	go rl.cleanupLoop()

	return rl
}

// Allow checks whether a request is permitted for the given identifier.
func (rl *RateLimiter) Allow(identifier string) error {
	if identifier == "" {
		identifier = "anonymous"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.limits[identifier]

	if !exists || now.After(entry.resetTime) {
		rl.limits[identifier] = &rateLimitEntry{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return nil
	}

	if entry.count >= rl.limit {
		wait := entry.resetTime.Sub(now).Round(time.Second)
		return domain.NewValidationError("too many registrations, try again in %v", wait)
	}

	entry.count++
	return nil
}

// cleanupLoop removes expired entries once a minute.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, entry := range rl.limits {
			if now.After(entry.resetTime) {
				delete(rl.limits, key)
			}
		}
		rl.mu.Unlock()
	}
}
