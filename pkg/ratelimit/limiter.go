// Package ratelimit implements a sliding-window request limiter keyed by
// client identity.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most Limit requests per identifier within a trailing
// Window. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	requests map[string][]time.Time
	now      func() time.Time
}

// New creates a Limiter with the given limit and window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:    limit,
		window:   window,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether a request for identifier is admitted. Timestamps
// older than the window are pruned first; if the remaining count is at or
// above the limit the request is rejected without being recorded.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.requests[identifier][:0]
	for _, t := range l.requests[identifier] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.requests[identifier] = kept
		return false
	}

	l.requests[identifier] = append(kept, now)
	return true
}

// Limit returns the configured request limit.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }
