package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sessionLimiter keeps one token bucket per session. A bucket left alone for
// burst*every is full again, so it is dropped and recreated on demand.
type sessionLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
	swept    time.Time
	limiters map[string]*bucket
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newSessionLimiter(every time.Duration, burst int) *sessionLimiter {
	if every <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &sessionLimiter{
		limit:    rate.Every(every),
		burst:    burst,
		idle:     every * time.Duration(burst),
		now:      time.Now,
		limiters: make(map[string]*bucket),
	}
}

// Allow reports whether the session may act now. A nil limiter allows everything.
func (l *sessionLimiter) Allow(sessionID string) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)
	b, ok := l.limiters[sessionID]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[sessionID] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops idle buckets, at most once per idle period.
func (l *sessionLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.idle {
		return
	}
	l.swept = now
	for id, b := range l.limiters {
		if now.Sub(b.seen) >= l.idle {
			delete(l.limiters, id)
		}
	}
}

// Forget drops the bucket of a finished session.
func (l *sessionLimiter) Forget(sessionID string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.limiters, sessionID)
	l.mu.Unlock()
}

func (l *sessionLimiter) size() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
