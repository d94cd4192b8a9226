package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"wardrobe-matcher/metrics"
	"wardrobe-matcher/models"
)

// RateLimitMessage is returned when a client exceeds its budget.
const RateLimitMessage = "Too many requests from this IP, please try again later."

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements a per-key token bucket limiter
type RateLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	limit    rate.Limit
	burst    int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows perWindow requests per window for each key. A burst
// of zero lets a fresh key spend the whole window budget at once. Keys idle
// for longer than window are forgotten.
func NewRateLimiter(perWindow int, window time.Duration, burst int) *RateLimiter {
	if burst <= 0 {
		burst = perWindow
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perWindow) / window.Seconds()),
		burst:    burst,
		idleTTL:  window,
		now:      time.Now,
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()

	// Clean up idle visitors at most once per idleTTL
	if now.Sub(rl.lastSweep) > rl.idleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.visitors)
}

// RateLimitMiddleware rejects requests from an IP that exceeded its budget
func RateLimitMiddleware(limiter *RateLimiter, retryAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Use IP address as the key for rate limiting
		clientIP := c.ClientIP()

		if !limiter.Allow(clientIP) {
			log.Warnf("Rate limit exceeded for IP: %s", clientIP)
			metrics.RateLimitedTotal.Inc()
			c.Header("Retry-After", formatSeconds(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Envelope{
				Success: false,
				Message: RateLimitMessage,
			})
			return
		}

		c.Next()
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d.Seconds()))
}
