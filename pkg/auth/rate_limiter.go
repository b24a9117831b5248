package auth

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter keeps one token bucket per key (caller id or client IP)
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	// sweepEvery bounds how often idle buckets are looked for
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter allows requestsPerMinute per key with bursts of the same size
func NewKeyedLimiter(requestsPerMinute int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:   make(map[string]*entry),
		limit:      rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:      requestsPerMinute,
		idleTTL:    time.Hour,
		sweepEvery: 15 * time.Minute,
		now:        time.Now,
	}
}

// Allow reports whether a request for the key may proceed now
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	if now.Sub(l.lastSweep) >= l.sweepEvery {
		l.evictIdle(now)
		l.lastSweep = now
	}

	return e.limiter.AllowN(now, 1)
}

// evictIdle drops buckets untouched for idleTTL. Callers hold mu.
func (l *KeyedLimiter) evictIdle(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, k)
		}
	}
}

// UserKey namespaces a caller id
func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// IPKey namespaces a client address
func IPKey(ip string) string {
	return fmt.Sprintf("ip:%s", ip)
}
