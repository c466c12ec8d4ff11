package authz

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimitCapacity is the number of authenticated requests a
	// principal may make within the window.
	DefaultRateLimitCapacity = 100
	// DefaultRateLimitWindow is the sliding window length.
	DefaultRateLimitWindow = 15 * time.Minute
)

// SlidingWindowLimiter rate-limits authenticated requests per principal id
// using a sliding window of request timestamps. The map is guarded by a
// mutex; stale principals are evicted lazily on access and swept whenever a
// full window has passed since the last sweep, so memory stays bounded under
// many distinct historical principals.
type SlidingWindowLimiter struct {
	capacity int
	window   time.Duration
	now      func() time.Time

	mu        sync.Mutex
	hits      map[int64][]time.Time
	lastSweep time.Time
}

// NewSlidingWindowLimiter constructs a limiter. Non-positive capacity or
// window fall back to the defaults.
func NewSlidingWindowLimiter(capacity int, window time.Duration) *SlidingWindowLimiter {
	if capacity <= 0 {
		capacity = DefaultRateLimitCapacity
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &SlidingWindowLimiter{
		capacity: capacity,
		window:   window,
		now:      time.Now,
		hits:     make(map[int64][]time.Time),
	}
}

// WithClock overrides the limiter's clock, for tests.
func (l *SlidingWindowLimiter) WithClock(now func() time.Time) *SlidingWindowLimiter {
	l.now = now
	return l
}

// Allow records a request for the principal and reports whether it stays
// within the window.
func (l *SlidingWindowLimiter) Allow(principalID int64) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now, cutoff)

	recent := prune(l.hits[principalID], cutoff)
	if len(recent) >= l.capacity {
		l.hits[principalID] = recent
		return false
	}
	l.hits[principalID] = append(recent, now)
	return true
}

// Len reports the number of tracked principals. Used by tests to assert
// eviction bounds the map.
func (l *SlidingWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// sweep drops principals whose every timestamp left the window. Runs at most
// once per window length.
func (l *SlidingWindowLimiter) sweep(now time.Time, cutoff time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for id, stamps := range l.hits {
		if recent := prune(stamps, cutoff); len(recent) == 0 {
			delete(l.hits, id)
		} else {
			l.hits[id] = recent
		}
	}
}

func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
