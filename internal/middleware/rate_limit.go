package middleware

import (
	"net"
	"net/http"
	"time"

	"tacticalops/clanhub/internal/common"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Idle buckets expire.
type RateLimiter struct {
	limiters  *cache.Cache
	rps       rate.Limit
	burst     int
	whitelist map[string]bool
}

func NewRateLimiter(rps float64, burst int, whitelist ...string) *RateLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		wl[ip] = true
	}
	return &RateLimiter{
		limiters:  cache.New(10*time.Minute, 5*time.Minute),
		rps:       rate.Limit(rps),
		burst:     burst,
		whitelist: wl,
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	if l, ok := rl.limiters.Get(ip); ok {
		rl.limiters.SetDefault(ip, l)
		return l.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rl.rps, rl.burst)
	if err := rl.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Lost a race with another request from the same IP.
		if l, ok := rl.limiters.Get(ip); ok {
			return l.(*rate.Limiter)
		}
	}
	return limiter
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if rl.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.limiterFor(ip).Allow() {
			common.RespondError(w, time.Now(), nil, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
