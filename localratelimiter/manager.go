package localratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/promptlens/promptlens/models"
)

// RateLimiter enforces a per-client-IP token bucket on the refine
// endpoint so one aggressive typist cannot starve the upstream quota.
type RateLimiter struct {
	limiters map[string]*limiterEntry
	mutex    sync.Mutex
	perSec   int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perSec requests per second
// per client IP, with burst of twice that.
func NewRateLimiter(perSec int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		perSec:   perSec,
	}
	go rl.cleanupOldLimiters()
	return rl
}

// RateLimiterMiddleware returns a gin.HandlerFunc that enforces the
// per-IP limit. A non-positive perSec disables limiting.
func (rl *RateLimiter) RateLimiterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.perSec <= 0 {
			c.Next()
			return
		}

		rl.mutex.Lock()
		entry := rl.getLimiter(c.ClientIP())
		rl.mutex.Unlock()

		if !entry.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// getLimiter must be called with the mutex held.
func (rl *RateLimiter) getLimiter(ip string) *limiterEntry {
	if entry, exists := rl.limiters[ip]; exists {
		entry.lastSeen = time.Now()
		return entry
	}

	entry := &limiterEntry{
		limiter:  rate.NewLimiter(rate.Limit(rl.perSec), rl.perSec*2),
		lastSeen: time.Now(),
	}
	rl.limiters[ip] = entry

	return entry
}

func (rl *RateLimiter) cleanupOldLimiters() {
	for {
		time.Sleep(time.Minute)
		rl.mutex.Lock()
		for ip, entry := range rl.limiters {
			if time.Since(entry.lastSeen) > time.Minute {
				delete(rl.limiters, ip)
			}
		}
		rl.mutex.Unlock()
	}
}
