package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"citas-medicas-server/internal/utils"
)

const (
	clientIdleTTL = 3 * time.Minute
	sweepInterval = time.Minute
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// LoginRateLimiter keeps one token bucket per client IP.
type LoginRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewLoginRateLimiter returns a limiter allowing rps attempts per second per
// IP with the given burst.
func NewLoginRateLimiter(rps float64, burst int) *LoginRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LoginRateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (rl *LoginRateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// Stale entries are dropped on the request path; no janitor goroutine.
	if now.Sub(rl.lastSweep) > sweepInterval {
		for key, c := range rl.clients {
			if now.Sub(c.seen) > clientIdleTTL {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = now
	}

	if c, ok := rl.clients[ip]; ok {
		c.seen = now
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: now}
	return l
}

// Allow reports whether ip may attempt another login now.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	return rl.get(ip).Allow()
}

// LoginRateLimit rejects login attempts beyond the configured rate with 429.
// A nil limiter disables throttling.
func LoginRateLimit(rl *LoginRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(1))
			utils.TooManyRequests(c, "Demasiados intentos, intente más tarde")
			return
		}
		c.Next()
	}
}
