package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the per-client map; beyond it the map is reset.
const maxLimiters = 10000

// ClientRateLimiter hands out one token bucket per client key.
type ClientRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewClientRateLimiter allows r requests per second with bursts of b per client.
func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	return &ClientRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (l *ClientRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if exists {
		return limiter
	}

	if len(l.limiters) >= maxLimiters {
		slog.Info("resetting client rate limiters", "count", len(l.limiters))
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(l.r, l.b)
	l.limiters[key] = limiter
	return limiter
}

// RateLimit throttles each client, keyed by token subject when present and
// by remote IP otherwise.
func RateLimit(l *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.GetLimiter(clientKey(r)).Allow() {
				response.TooManyRequests(w, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return "sub:" + sub
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
