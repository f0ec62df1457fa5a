package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ClientLimiters hands out one token bucket per client IP. Buckets of clients
// that stay quiet for the idle period are evicted.
type ClientLimiters struct {
	buckets *cache.Cache
	r       rate.Limit
	b       int
}

// NewClientLimiters creates a new set of per-client limiters.
func NewClientLimiters(r rate.Limit, b int, idle time.Duration) *ClientLimiters {
	return &ClientLimiters{
		buckets: cache.New(idle, 2*idle),
		r:       r,
		b:       b,
	}
}

// Get returns the limiter for ip, creating it on first use.
func (l *ClientLimiters) Get(ip string) *rate.Limiter {
	if v, ok := l.buckets.Get(ip); ok {
		limiter := v.(*rate.Limiter)
		l.buckets.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.r, l.b)
	if err := l.buckets.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// another request created it first
		if v, ok := l.buckets.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiters := NewClientLimiters(r, b, 10*time.Minute)
	return func(c *gin.Context) {
		if !limiters.Get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "too many requests",
				"data":    gin.H{},
			})
			return
		}
		c.Next()
	}
}
