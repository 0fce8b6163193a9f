package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"movecalc/internal/api/models"

	"github.com/gin-gonic/gin"
)

const (
	bucketIdleThreshold = 1 * time.Hour
	bucketCleanupEvery  = 30 * time.Minute
)

type clientBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket. Each client may burst up to
// capacity requests; tokens come back at perMinute per minute.
type RateLimiter struct {
	mu       sync.Mutex
	capacity float64
	interval time.Duration
	clients  map[string]*clientBucket
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

func NewRateLimiter(perMinute, capacity int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if capacity <= 0 {
		capacity = perMinute
	}
	rl := &RateLimiter{
		capacity: float64(capacity),
		interval: time.Minute / time.Duration(perMinute),
		clients:  make(map[string]*clientBucket),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(bucketCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, b := range r.clients {
		if now.Sub(b.lastRefill) > bucketIdleThreshold {
			delete(r.clients, key)
		}
	}
}

func (r *RateLimiter) Stop() {
	r.once.Do(func() { close(r.stop) })
}

// Allow takes a token for key. When the bucket is empty it reports how long
// until the next token.
func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.clients[key]
	if !ok {
		r.clients[key] = &clientBucket{tokens: r.capacity - 1, lastRefill: now}
		return true, 0
	}

	elapsed := now.Sub(b.lastRefill)
	b.tokens = math.Min(r.capacity, b.tokens+float64(elapsed)/float64(r.interval))
	b.lastRefill = now

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) * float64(r.interval))
		return false, wait
	}
	b.tokens--
	return true, 0
}

// RateLimit rejects clients that exceed the limiter with 429.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := limiter.Allow(c.ClientIP())
		if !ok {
			retry := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "RATE_LIMITED",
					Message: "Too many requests, try again later",
					Details: map[string]interface{}{"retry_after": retry},
				},
			})
			return
		}
		c.Next()
	}
}
