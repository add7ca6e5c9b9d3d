package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default number of requests per minute per client
	DefaultRateLimit = 100
	// DefaultBurstSize is the default burst size
	DefaultBurstSize = 10
	// CleanupInterval is how often idle client buckets are swept
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is how long a client bucket survives without requests
	LimiterTTL = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu                sync.Mutex
	buckets           map[string]*bucket
	requestsPerMinute int
	perSecond         rate.Limit
	burstSize         int
	now               func() time.Time
	stopCh            chan struct{}
	stopOnce          sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// decision is the outcome of one request against a bucket
type decision struct {
	allowed   bool
	remaining int
	reset     time.Time
}

// NewRateLimiter creates a RateLimiter with the default limits
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter; non-positive values fall back to the defaults
func NewRateLimiterWithConfig(requestsPerMinute int, burstSize int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRateLimit
	}
	if burstSize <= 0 {
		burstSize = DefaultBurstSize
	}

	rl := &RateLimiter{
		buckets:           make(map[string]*bucket),
		requestsPerMinute: requestsPerMinute,
		perSecond:         rate.Limit(float64(requestsPerMinute) / 60.0),
		burstSize:         burstSize,
		now:               time.Now,
		stopCh:            make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Allow reports whether a request from key may proceed, consuming a token if so
func (r *RateLimiter) Allow(key string) bool {
	return r.take(key).allowed
}

func (r *RateLimiter) take(key string) decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.perSecond, r.burstSize)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))

	// Time until the bucket is full again
	missing := float64(r.burstSize) - tokens
	refill := time.Duration(missing / float64(r.perSecond) * float64(time.Second))

	return decision{allowed: allowed, remaining: remaining, reset: now.Add(refill)}
}

// sweep drops buckets that have been idle longer than LimiterTTL
func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			cutoff := r.now().Add(-LimiterTTL)
			for key, b := range r.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(r.buckets, key)
				}
			}
			r.mu.Unlock()
		case <-r.stopCh:
			return
		}
	}
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// RateLimitMiddleware limits requests per client IP and reports the bucket in X-RateLimit-* headers
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	limit := strconv.Itoa(rl.requestsPerMinute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			d := rl.take(key)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.reset.Unix(), 10))

			if d.allowed {
				return next(c)
			}

			// Next token arrives after one refill interval
			retryAfter := int(math.Ceil(1 / float64(rl.perSecond)))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))

			log.Warn().
				Str("client", key).
				Int("retry_after", retryAfter).
				Msg("Rate limit exceeded")

			return rateLimitError(c, retryAfter)
		}
	}
}
