/**
 * @description
 * In-memory sliding-window rate limiter. Used to cap application submissions
 * per client when no Redis deployment is configured; the Redis-backed limiter
 * in redis_rate_limiter.go is preferred for multi-instance deployments.
 *
 * Key features:
 * - Sliding window over real timestamps, not fixed buckets, so a burst at a
 *   bucket boundary cannot double the effective limit.
 * - The clock is injected, making window expiry deterministic under test.
 * - PruneStale drops idle subjects so the map cannot grow without bound.
 *
 * @dependencies
 * - fmt, strings, sync, time: Standard Go libraries.
 */

package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// RateLimiter tracks request counts per scope and subject over a window.
// Implementations return the post-increment count and, once the limit is hit,
// how many seconds the caller should wait before retrying.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// SlidingWindowLimiter is a process-local RateLimiter over a sliding window.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	now     func() time.Time
}

// NewSlidingWindowLimiter creates a limiter. A nil clock uses time.Now.
func NewSlidingWindowLimiter(clock func() time.Time) *SlidingWindowLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &SlidingWindowLimiter{
		entries: make(map[string][]time.Time),
		now:     clock,
	}
}

// ConsumeRateLimit records one request for scope/subject and reports whether
// the window still has room. When count exceeds limit the request was NOT
// recorded and retryAfterSeconds says when the oldest entry falls out of the
// window. A non-positive limit or window disables limiting.
func (l *SlidingWindowLimiter) ConsumeRateLimit(_ context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	if l == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}
	scope = strings.TrimSpace(scope)
	subject = strings.TrimSpace(subject)
	if scope == "" || subject == "" {
		return 0, 0, nil
	}

	key := fmt.Sprintf("%s:%s", scope, subject)
	now := l.now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[key][:0]
	for _, t := range l.entries[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.entries[key] = kept
		retryAfter := int(kept[0].Add(window).Sub(now).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		return len(kept) + 1, retryAfter, nil
	}

	l.entries[key] = append(kept, now)
	return len(kept) + 1, 0, nil
}

// PruneStale drops subjects whose newest entry is older than olderThan and
// returns how many were removed. Called periodically by the scheduler.
func (l *SlidingWindowLimiter) PruneStale(olderThan time.Duration) int {
	cutoff := l.now().Add(-olderThan)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, times := range l.entries {
		if len(times) == 0 || times[len(times)-1].Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}
