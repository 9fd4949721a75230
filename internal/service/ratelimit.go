package service

import (
	"sync"
	"time"
)

// LoginLimiter is an in-memory fixed-window rate limiter keyed by caller
// identity. It is safe for concurrent use: the count is incremented and
// checked under one lock, so two simultaneous attempts at the threshold
// cannot both pass. Stale windows are cleaned up in the background.
type LoginLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	max      int
	interval time.Duration
}

type window struct {
	start time.Time
	count int
}

// NewLoginLimiter creates a limiter allowing up to max attempts per key
// within each interval. It starts a background goroutine that
// periodically removes expired windows.
func NewLoginLimiter(max int, interval time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		windows:  make(map[string]*window),
		max:      max,
		interval: interval,
	}
	go l.cleanup()
	return l
}

// Allow records an attempt for key and reports whether it is within the
// limit. Once the window's attempts exceed max, every further attempt in
// that window is denied regardless of anything else; a fresh window
// starts once the interval has elapsed.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.interval {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= l.max
}

// cleanup runs periodically and removes windows that ended more than an
// interval ago.
func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-2 * l.interval)
		for key, w := range l.windows {
			if w.start.Before(cutoff) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}
