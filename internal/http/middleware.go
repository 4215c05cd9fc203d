package http

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tazhibayda/algojourney/internal/log"
	"github.com/tazhibayda/algojourney/internal/metrics"
	"github.com/tazhibayda/algojourney/internal/repo"
	"github.com/tazhibayda/algojourney/internal/security"
)

const (
	headerRequestID = "X-Request-ID"
	claimsKey       = "claims"
	uidKey          = "uid"
)

// RequestID propagates or mints a request id and stores it in the request
// context for loggers and published events.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(headerRequestID, id)
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l := log.Ctx(c.Request.Context(),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Warn("request")
			return
		}
		l.Info("request")
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.InFlight.Inc()
		defer metrics.InFlight.Dec()
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// WithCORS wraps the router so browsers from origins may call it with a
// bearer header.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	})(h)
}

// AuthJWT admits requests with a valid bearer token and exposes its claims
// under "claims" and "uid".
func AuthJWT(tokens *security.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := security.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer"})
			return
		}
		claims, err := tokens.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Set(uidKey, claims.UID)
		c.Next()
	}
}

func claimsOf(c *gin.Context) *security.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	cl, _ := v.(*security.Claims)
	return cl
}

// Limiter decides whether one more hit on key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	hits    int
	resetAt time.Time
}

// RateLimiter is a fixed-window counter per key, kept in process memory.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*bucket), rate: rate, window: window, now: time.Now}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		if len(rl.buckets) > 10000 {
			rl.evictLocked(now)
		}
		rl.buckets[key] = &bucket{hits: 1, resetAt: now.Add(rl.window)}
		return true, nil
	}
	if b.hits < rl.rate {
		b.hits++
		return true, nil
	}
	return false, nil
}

func (rl *RateLimiter) evictLocked(now time.Time) {
	for k, b := range rl.buckets {
		if !now.Before(b.resetAt) {
			delete(rl.buckets, k)
		}
	}
}

// RedisLimiter shares the window across replicas.
type RedisLimiter struct {
	rds    *repo.Redis
	rate   int
	window time.Duration
}

func NewRedisLimiter(rds *repo.Redis, rate int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rds: rds, rate: rate, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.rds.Allow(ctx, key, l.rate, l.window)
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(ip); err == nil && host != "" {
		return host
	}
	return ip
}

// RateLimit throttles a route per client IP. Limiter failures let the
// request through.
func RateLimit(l Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ok, err := l.Allow(c.Request.Context(), scope+":"+ClientIP(c))
		if err != nil {
			log.Ctx(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
