package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel-booking-ledger/internal/config"
	"golang.org/x/time/rate"
)

// clientLimiter is the token bucket of one client address
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client IP
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	logger  *slog.Logger
}

// NewRateLimiter builds a limiter from cfg. A zero RPS disables limiting.
func NewRateLimiter(logger *slog.Logger, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idleTTL: 30 * time.Minute,
		logger:  logger,
	}
}

func (rl *RateLimiter) enabled() bool {
	return rl.limit > 0
}

func (rl *RateLimiter) get(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Sweep forgets clients idle since before now minus the idle TTL and returns how many were dropped
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps idle clients every interval until ctx is done
func (rl *RateLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	if !rl.enabled() {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := rl.Sweep(now); n > 0 {
					rl.logger.Debug("Rate limiter dropped idle clients", "count", n)
				}
			}
		}
	}()
}

// Limit rejects requests over the client's budget with 429
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !rl.get(ip, time.Now()).Allow() {
			rl.logger.Warn("Rate limit exceeded",
				"client_ip", ip,
				"path", c.Request.URL.Path,
				"correlation_id", GetCorrelationID(c),
			)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests, retry later",
				},
				"correlation_id": GetCorrelationID(c),
			})
			return
		}

		c.Next()
	}
}
