// Package application contains use-case orchestration services and the
// engine's core algorithms: rate limiting, caching, query building,
// scoring, repository analysis, and combination.
package application

import (
	"context"
	"sync"
	"time"
)

// Rate limiter defaults. The quota matches the authenticated API maximum;
// the low-water mark leaves headroom for other consumers of the same token.
const (
	defaultMaxQuota    = 5000
	defaultLowWater    = 100
	defaultMinInterval = 100 * time.Millisecond
)

// RateLimiter throttles outbound calls to the search API. It tracks the
// remaining quota and reset time reported by response headers, and enforces
// a minimum spacing between consecutive requests. Shared across concurrent
// requests; all state transitions happen under the mutex, and the mutex is
// never held while waiting.
type RateLimiter struct {
	mu          sync.Mutex
	remaining   int
	resetTime   time.Time
	lastRequest time.Time

	maxQuota    int
	lowWater    int
	minInterval time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a RateLimiter with the default quota, low-water
// mark, and minimum request spacing. The quota starts full and is
// reconciled with reality on the first UpdateLimits call.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining:   defaultMaxQuota,
		maxQuota:    defaultMaxQuota,
		lowWater:    defaultLowWater,
		minInterval: defaultMinInterval,
		now:         time.Now,
	}
}

// Wait blocks until it is safe to issue the next external call, then
// records the request and decrements the quota. Waiting is timer-based and
// cancellable: if ctx is done before the wait elapses, Wait returns
// ctx.Err() without consuming a quota decrement. Starvation only delays,
// it never errors.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()

		// Quota window rolled over.
		if !l.resetTime.IsZero() && now.After(l.resetTime) {
			l.remaining = l.maxQuota
			l.resetTime = time.Time{}
		}

		var wait time.Duration
		if l.remaining <= l.lowWater && l.resetTime.After(now) {
			wait = l.resetTime.Sub(now)
		} else if gap := now.Sub(l.lastRequest); gap < l.minInterval {
			wait = l.minInterval - gap
		}

		if wait <= 0 {
			l.lastRequest = now
			l.remaining--
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Re-check under the lock; another request may have taken
			// the slot while we slept.
		}
	}
}

// UpdateLimits reconciles the limiter with the true quota reported by the
// last response's rate headers.
func (l *RateLimiter) UpdateLimits(remaining int, resetEpoch int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remaining = remaining
	l.resetTime = time.Unix(resetEpoch, 0)
}

// Remaining returns the currently tracked quota. Exposed for health
// reporting only.
func (l *RateLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}
