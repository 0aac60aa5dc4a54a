package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleAfter is how long an idle client's limiter is kept before eviction.
const staleAfter = 10 * time.Minute

// RateLimit enforces a per-client-IP token bucket. Command execution can be
// expensive (process scans, directory walks), so the limit applies to every
// route. Idle client buckets are evicted lazily on new-arrival sweeps.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	sweep := func(now time.Time) {
		for ip, c := range clients {
			if now.Sub(c.lastSeen) > staleAfter {
				delete(clients, ip)
			}
		}
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			if len(clients) > 1024 {
				sweep(now)
			}
			cl = &client{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		limiter := cl.limiter
		mu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
