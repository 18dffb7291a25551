package mw

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client's limiter survives without requests.
const idleLimiterTTL = 10 * time.Minute

// IPRateLimiter hands out one token bucket per client IP. Buckets of idle
// clients expire.
type IPRateLimiter struct {
	clients *cache.Cache
	r       rate.Limit
	b       int
}

// NewIPRateLimiter creates a limiter allowing r requests per second with
// bursts of b for every client.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: cache.New(idleLimiterTTL, time.Minute),
		r:       r,
		b:       b,
	}
}

// GetLimiter returns the bucket for ip, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	if v, found := i.clients.Get(ip); found {
		limiter := v.(*rate.Limiter)
		i.clients.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	if err := i.clients.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Another request for the same client won the race.
		if v, found := i.clients.Get(ip); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimiter rejects clients exceeding r requests per second (burst b)
// with 429 and a Retry-After hint.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			retry := 1
			if r > 0 {
				retry = int(math.Ceil(1 / float64(r)))
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
