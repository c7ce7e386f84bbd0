package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "Too many attempts. Please try again later."

// RateLimiter is an in-memory per-IP limiter for the login, register and
// contact forms
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
	done     chan struct{}
}

// NewRateLimiter creates a limiter allowing r requests per second with bursts
// of b. Idle visitors are swept every minute until ctx is done.
func NewRateLimiter(ctx context.Context, r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
		done:     make(chan struct{}),
	}

	go rl.cleanupVisitors(ctx, time.Minute)

	return rl
}

// Done is closed once the sweeper has stopped
func (rl *RateLimiter) Done() <-chan struct{} {
	return rl.done
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.r, rl.b)
		rl.visitors[ip] = limiter
	}

	return limiter
}

func (rl *RateLimiter) cleanupVisitors(ctx context.Context, every time.Duration) {
	defer close(rl.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, limiter := range rl.visitors {
				// a full bucket means no recent requests
				if limiter.Tokens() >= float64(rl.b) {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.getVisitor(c.ClientIP()).Allow() {
			c.Next()
			return
		}

		if strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.String(http.StatusTooManyRequests, rateLimitMessage)
		} else {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitMessage})
		}
		c.Abort()
	}
}
