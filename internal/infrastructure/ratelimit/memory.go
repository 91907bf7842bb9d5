package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process sliding window limiter. Suitable for
// single-instance deployments; use RedisLimiter when running more than
// one replica.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryLimiter creates a memory limiter allowing limit requests per window
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Close stops the background cleanup goroutine and waits for it to exit.
// Safe to call more than once.
func (l *MemoryLimiter) Close() error {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
	return nil
}

// cleanup drops keys whose whole window has expired
func (l *MemoryLimiter) cleanup() {
	defer close(l.done)

	ticker := time.NewTicker(l.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-l.window)
			for key, stamps := range l.windows {
				if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Allow records the request and reports whether it fits in the window
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	stamps := l.windows[key]
	active := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			active = append(active, ts)
		}
	}

	if len(active) >= l.limit {
		l.windows[key] = active
		return Result{Allowed: false, Limit: l.limit, Remaining: 0}, nil
	}

	active = append(active, now)
	l.windows[key] = active
	return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - len(active)}, nil
}
