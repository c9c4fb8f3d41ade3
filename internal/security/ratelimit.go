package security

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a fixed-window token bucket per key
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     int           // requests per window
	window   time.Duration // time window
	now      func() time.Time
}

type visitor struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a limiter allowing rate requests per window and key.
// Stale keys are swept until ctx is cancelled.
func NewRateLimiter(ctx context.Context, rate int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(rate, window, time.Now)
	go rl.cleanupLoop(ctx)
	return rl
}

func newRateLimiter(rate int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		now:      now,
	}
}

// Allow reports whether key may make another request in the current window.
// A non-positive rate disables limiting.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.rate <= 0 {
		return true
	}

	rl.mu.Lock()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{tokens: rl.rate, lastRefill: rl.now()}
		rl.visitors[key] = v
	}
	rl.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := rl.now()
	if now.Sub(v.lastRefill) >= rl.window {
		v.tokens = rl.rate
		v.lastRefill = now
	}
	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

// RetryAfter is the window length, used for the Retry-After header
func (rl *RateLimiter) RetryAfter() time.Duration {
	return rl.window
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops keys idle for more than two windows
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, v := range rl.visitors {
		v.mu.Lock()
		if now.Sub(v.lastRefill) > rl.window*2 {
			delete(rl.visitors, key)
		}
		v.mu.Unlock()
	}
}
