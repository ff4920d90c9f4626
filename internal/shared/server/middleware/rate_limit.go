package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/server/respond"
	"cozetik-backend/internal/shared/telemetry"
	"cozetik-backend/internal/shared/util"
)

const (
	defaultRateLimitGroup = "DEFAULT"
)

// RateLimitRule allows Limit requests per Window and principal.
type RateLimitRule struct {
	Limit  int
	Window time.Duration
}

// Limiter decides whether one more request fits the rule for key.
type Limiter interface {
	Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration, error)
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      Limiter
}

// RateLimiter is an in-process token bucket limiter.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := util.ClientKey(principal) + "|" + group
		allowed, retryAfter, err := cfg.Limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			// fail open: a limiter outage must not block intake
			telemetry.Warn("ratelimit.error", map[string]any{"group": group, "error": err})
			c.Next()
			return
		}
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited",
			"Trop de requêtes, veuillez réessayer plus tard", gin.H{"retryAfterMs": retryAfterMs})
	}
}

// Allow refills the bucket at Limit/Window tokens per second with a burst of Limit.
func (l *RateLimiter) Allow(_ context.Context, key string, rule RateLimitRule) (bool, time.Duration, error) {
	if l == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return true, 0, nil
	}
	rate := float64(rule.Limit) / rule.Window.Seconds()
	burst := float64(rule.Limit)

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: burst, last: now}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(burst, bucket.tokens+elapsed*rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0, nil
	}
	waitSec := (1 - bucket.tokens) / rate
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond, nil
}
