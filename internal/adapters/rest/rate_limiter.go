package rest

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/redis/go-redis/v9"
)

// RateCounter is the subset of the Redis client used by the limiter.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter is a per-IP fixed window counter.
type RateLimiter struct {
	counter RateCounter
	limit   int
	window  time.Duration
	prefix  string
}

// NewRateLimiter returns a limiter that lets every request through when counter is nil or
// limit is not positive.
func NewRateLimiter(counter RateCounter, limit int, window time.Duration, prefix string) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{counter: counter, limit: limit, window: window, prefix: prefix}
}

func (l *RateLimiter) enabled() bool {
	return l != nil && l.counter != nil && l.limit > 0
}

// Middleware answers 429 once a client exceeds the limit in the current window.
// Redis errors let the request through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.enabled() {
			next.ServeHTTP(w, r)
			return
		}
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"component": "RateLimiter"})

		key := l.prefix + clientIP(r)
		count, err := l.counter.Incr(r.Context(), key).Result()
		if err != nil {
			logger.Warn("Rate counter unavailable, allowing request", port.Fields{"error": err.Error()})
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.armWindow(r.Context(), key, logger)
		}
		if count > int64(l.limit) {
			// A failed first EXPIRE would leave the key without a window forever.
			if ttl, err := l.counter.TTL(r.Context(), key).Result(); err == nil && ttl < 0 {
				l.armWindow(r.Context(), key, logger)
			}
			logger.Warn("Rate limit exceeded", port.Fields{"count": count, "limit": l.limit})
			w.Header().Set("Retry-After", retryAfter(l.window))
			WriteJSONError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) armWindow(ctx context.Context, key string, logger port.LoggerPort) {
	if err := l.counter.Expire(ctx, key, l.window).Err(); err != nil {
		logger.Warn("Failed to set rate window expiry", port.Fields{"error": err.Error()})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfter is the window length in whole seconds, at least one.
func retryAfter(window time.Duration) string {
	return strconv.Itoa(max(1, int(window/time.Second)))
}
