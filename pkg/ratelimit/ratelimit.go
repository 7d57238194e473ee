package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by caller (usually client IP).
type Limiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	window    time.Duration
	maxHits   int
	now       func() time.Time
	lastSweep time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

// Allow records a hit for key. When the key is over its budget the hit is not
// recorded and the returned duration says how long until the oldest hit expires.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)
	l.sweep(now, windowStart)

	valid := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(windowStart) {
			valid = append(valid, hit)
		}
	}

	if len(valid) >= l.maxHits {
		if len(valid) == 0 {
			delete(l.hits, key)
			return false, l.window
		}
		l.hits[key] = valid
		return false, valid[0].Sub(windowStart)
	}

	l.hits[key] = append(valid, now)
	return true, 0
}

// sweep drops callers with no hits inside the window, at most once per window.
func (l *Limiter) sweep(now, windowStart time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now

	for key, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(windowStart) {
			delete(l.hits, key)
		}
	}
}
