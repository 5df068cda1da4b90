package handler

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter: набор token bucket лимитеров по IP клиента.
type IPRateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	entries map[string]*limBucket
	swept   time.Time
	now     func() time.Time
}

type limBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter создаёт лимитер. perSecond <= 0 отключает ограничение.
func NewIPRateLimiter(perSecond float64, burst int, ttl time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     ttl,
		entries: make(map[string]*limBucket),
		now:     time.Now,
	}
}

// Allow расходует один токен из корзины ключа.
func (l *IPRateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.entries[key]
	if b == nil {
		b = &limBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = b
	}
	b.lastSeen = now

	// чистим не чаще раза в ttl
	if now.Sub(l.swept) > l.ttl {
		for k, v := range l.entries {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.entries, k)
			}
		}
		l.swept = now
	}
	return b.lim.AllowN(now, 1)
}

// RateLimit ограничивает частоту запросов с одного IP, при превышении 429.
func RateLimit(l *IPRateLimiter, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.Allow(ip) {
				reqLogger := loggerFrom(r.Context(), logger)
				reqLogger.Warn("rate limit exceeded", "remote_ip", ip)
				w.Header().Set("Retry-After", "1")
				respondWithError(w, http.StatusTooManyRequests, "Too many requests", reqLogger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP берёт IP из RemoteAddr (его уже переписал middleware.RealIP).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
