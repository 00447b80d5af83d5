package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	Allow(key string) bool
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryLimiter keeps one token bucket per key in memory. Buckets idle for
// longer than idleTTL are dropped.
type InMemoryLimiter struct {
	keys    map[string]*entry
	mu      sync.Mutex
	r       rate.Limit
	b       int
	idleTTL time.Duration
	swept   time.Time
	now     func() time.Time
}

// NewInMemoryLimiter creates a new rate limiter
// Example: NewInMemoryLimiter(20, 10*time.Second, 10) -> 20 requests every 10 seconds, burst of 10
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	r := rate.Inf
	if requests > 0 && per > 0 {
		r = rate.Every(per / time.Duration(requests))
	}
	if burst <= 0 {
		burst = 1
	}

	ttl := 10 * per
	if ttl < time.Minute {
		ttl = time.Minute
	}

	return &InMemoryLimiter{
		keys:    make(map[string]*entry),
		r:       r,
		b:       burst,
		idleTTL: ttl,
		now:     time.Now,
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)

// Allow checks if key may perform one more action now
func (l *InMemoryLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, exists := l.keys[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.keys[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (l *InMemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.idleTTL {
		return
	}
	l.swept = now
	for key, e := range l.keys {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.keys, key)
		}
	}
}

// ClientIP returns the client address of r, preferring the first
// X-Forwarded-For entry set by the reverse proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		candidate := strings.TrimSpace(strings.Split(xff, ",")[0])
		if parsed := net.ParseIP(candidate); parsed != nil {
			return parsed.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if parsed := net.ParseIP(host); parsed != nil {
		return parsed.String()
	}
	return ""
}
