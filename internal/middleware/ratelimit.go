package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
)

const (
	// Per-client budget: model calls are the expensive part, so the limit is
	// generous for a demo but keeps one client from monopolizing the quota.
	requestsPerSecond = 5
	burstSize         = 10

	// Idle limiters are dropped after this long to bound the map.
	limiterIdleTimeout = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns middleware enforcing a per-client-IP token bucket.
// Exceeding the budget returns 429 with the standard JSON error shape.
func RateLimit() gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	// Periodic cleanup of idle clients
	go func() {
		for range time.Tick(limiterIdleTimeout) {
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > limiterIdleTimeout {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		client, ok := clients[ip]
		if !ok {
			client = &clientLimiter{limiter: rate.NewLimiter(requestsPerSecond, burstSize)}
			clients[ip] = client
		}
		client.lastSeen = time.Now()
		mu.Unlock()

		if !client.limiter.Allow() {
			metrics.RateLimitedTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
