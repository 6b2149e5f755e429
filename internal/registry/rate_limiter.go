package registry

import (
	"sync"
	"time"
)

// RateLimiter : rolling window counter per key (client IP)
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    now,
	}
}

// Allow : records the call and reports whether it fits in the window; rejected calls are not recorded
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	hits := l.recent(key, now)
	if len(hits) >= l.limit {
		l.hits[key] = hits
		return false
	}

	l.hits[key] = append(hits, now)
	return true
}

// Prune : drops keys with no call inside the window
func (l *RateLimiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.hits {
		if hits := l.recent(key, now); len(hits) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = hits
		}
	}
}

func (l *RateLimiter) recent(key string, now time.Time) []time.Time {
	hits := l.hits[key]
	start := 0
	for start < len(hits) && now.Sub(hits[start]) >= l.window {
		start++
	}
	return hits[start:]
}
