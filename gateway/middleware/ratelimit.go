package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorTTL = 5 * time.Minute

type RateLimit struct {
	RatePerSecond float64
	Burst         int
}

type rateEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client and route group.
type RateLimiter struct {
	logger   *slog.Logger
	limits   map[string]RateLimit
	mu       sync.Mutex
	visitors map[string]*rateEntry
	clockNow func() time.Time
}

func NewRateLimiter(limits map[string]RateLimit, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		logger:   logger,
		limits:   limits,
		visitors: make(map[string]*rateEntry),
		clockNow: time.Now,
	}
}

func (r *RateLimiter) Middleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			limit, ok := r.limits[key]
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			identifier := clientID(req)
			if !r.allow(key+"|"+identifier, limit) {
				r.logger.Warn("rate limit exceeded", "route", key, "client", identifier)
				writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (r *RateLimiter) allow(id string, cfg RateLimit) bool {
	now := r.clockNow()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(now)
	entry, ok := r.visitors[id]
	if !ok {
		perSecond := cfg.RatePerSecond
		if perSecond <= 0 {
			perSecond = 1
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		entry = &rateEntry{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
		r.visitors[id] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (r *RateLimiter) evictLocked(now time.Time) {
	for id, entry := range r.visitors {
		if now.Sub(entry.lastSeen) > visitorTTL {
			delete(r.visitors, id)
		}
	}
}

func clientID(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if parsed := net.ParseIP(first); parsed != nil {
			return parsed.String()
		}
		return first
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
