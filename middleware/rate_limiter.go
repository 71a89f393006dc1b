// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	endpointLimits map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		mu:             &sync.RWMutex{},
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		endpointLimits: make(map[string]endpointLimit),
	}

	// Strict limit on login to slow brute-force attempts
	limiter.endpointLimits["/api/auth/login"] = endpointLimit{
		limit: rate.Every(2 * time.Second),
		burst: 5,
	}

	// Order creation is public; keep it below the default
	limiter.endpointLimits["/api/orders"] = endpointLimit{
		limit: rate.Every(time.Second),
		burst: 10,
	}

	return limiter
}

func (rl *RateLimiter) getLimiter(ip, path string) *rate.Limiter {
	key := ip
	limit := rl.defaultLimit
	burst := rl.defaultBurst
	if el, ok := rl.endpointLimits[path]; ok {
		key = ip + path
		limit = el.limit
		burst = el.burst
	}

	rl.mu.RLock()
	limiter, exists := rl.ips[key]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists = rl.ips[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(limit, burst)
	rl.ips[key] = limiter
	return limiter
}

// RateLimit is the Echo middleware enforcing per-IP limits.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(c.RealIP(), c.Path())
			if !limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
