package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/pkg/response"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Rate limit per second per IP (0 = unlimited)
	RequestsPerSecond int
	// Burst size (token bucket capacity)
	BurstSize int
	// Cleanup interval for stale entries
	CleanupInterval time.Duration
	// Entry TTL
	EntryTTL time.Duration
}

// DefaultRateLimitConfig returns sensible defaults for a dashboard API.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         20,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	}
}

// rateLimitEntry tracks token bucket state for an IP
type rateLimitEntry struct {
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

// LocalRateLimiter implements in-memory token bucket rate limiting
type LocalRateLimiter struct {
	config  RateLimitConfig
	entries sync.Map
	stop    chan struct{}

	totalAllowed  uint64
	totalRejected uint64
}

// NewLocalRateLimiter creates a new local rate limiter
func NewLocalRateLimiter(config RateLimitConfig) *LocalRateLimiter {
	rl := &LocalRateLimiter{
		config: config,
		stop:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow checks if a request should be allowed
func (rl *LocalRateLimiter) Allow(key string) bool {
	allowed, _ := rl.AllowWithRemaining(key)
	return allowed
}

// AllowWithRemaining checks if a request should be allowed and returns
// remaining tokens
func (rl *LocalRateLimiter) AllowWithRemaining(key string) (bool, float64) {
	now := time.Now()

	entry, _ := rl.entries.LoadOrStore(key, &rateLimitEntry{
		tokens:     float64(rl.config.BurstSize),
		lastUpdate: now,
	})
	e := entry.(*rateLimitEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := now.Sub(e.lastUpdate).Seconds()
	e.tokens = min(float64(rl.config.BurstSize), e.tokens+elapsed*float64(rl.config.RequestsPerSecond))
	e.lastUpdate = now

	if e.tokens >= 1 {
		e.tokens--
		atomic.AddUint64(&rl.totalAllowed, 1)
		return true, e.tokens
	}

	atomic.AddUint64(&rl.totalRejected, 1)
	return false, e.tokens
}

// GetStats returns rate limiter statistics
func (rl *LocalRateLimiter) GetStats() (allowed, rejected uint64) {
	return atomic.LoadUint64(&rl.totalAllowed), atomic.LoadUint64(&rl.totalRejected)
}

func (rl *LocalRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.EntryTTL)
			rl.entries.Range(func(key, value interface{}) bool {
				e := value.(*rateLimitEntry)
				e.mu.Lock()
				if e.lastUpdate.Before(cutoff) {
					rl.entries.Delete(key)
				}
				e.mu.Unlock()
				return true
			})
		case <-rl.stop:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *LocalRateLimiter) Stop() {
	close(rl.stop)
}

// RateLimiter creates a per-IP rate limiting middleware
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	limiter := NewLocalRateLimiter(config)

	return func(c *gin.Context) {
		if config.RequestsPerSecond <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		allowed, remainingTokens := limiter.AllowWithRemaining(clientIP)

		remaining := int(remainingTokens)
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerSecond))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		if !allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.RateLimited("Rate limit exceeded. Please retry after 1 second."))
			return
		}

		c.Next()
	}
}
