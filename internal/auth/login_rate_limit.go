package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginRateLimiter throttles login attempts per client IP. State is
// process-local; a multi-instance deployment rate limits per instance.
type LoginRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*ipLimiter
	limit      rate.Limit
	burst      int
	maxEntries int
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLoginRateLimiter(perMinute, burst int) *LoginRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}

	return &LoginRateLimiter{
		limiters:   make(map[string]*ipLimiter),
		limit:      rate.Limit(float64(perMinute) / 60.0),
		burst:      burst,
		maxEntries: 5000,
	}
}

func (l *LoginRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *LoginRateLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now

	if len(l.limiters) > l.maxEntries {
		cutoff := now.Add(-10 * time.Minute)
		for key, value := range l.limiters {
			if value.lastSeen.Before(cutoff) {
				delete(l.limiters, key)
			}
		}
	}

	return entry.limiter.Allow()
}

func clientIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return "unknown"
}
