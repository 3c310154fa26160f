package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/appointment-booking/pkg/httputil"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// StaleAfter drops the limiter of a client that has been idle this long.
	StaleAfter      time.Duration
	CleanupInterval time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config  RateLimiterConfig
	clients *cache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.StaleAfter <= 0 {
		config.StaleAfter = 3 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}
	return &RateLimiter{
		config:  config,
		clients: cache.New(config.StaleAfter, config.CleanupInterval),
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	if l, found := rl.clients.Get(ip); found {
		lim := l.(*rate.Limiter)
		// refresh expiry
		rl.clients.Set(ip, lim, cache.DefaultExpiration)
		return lim
	}

	lim := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	if err := rl.clients.Add(ip, lim, cache.DefaultExpiration); err != nil {
		// another request for the same client won the race
		if l, found := rl.clients.Get(ip); found {
			return l.(*rate.Limiter)
		}
	}
	return lim
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			httputil.AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
