package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"polychat/internal/httputil"
)

// Limiter decides whether key may make another request under a per-minute budget
type Limiter interface {
	// Allow reports whether the request may proceed and, if not, how long
	// the client should wait
	Allow(ctx context.Context, key string, perMinute int) (bool, time.Duration, error)
}

const (
	limiterIdleTTL       = 30 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// MemoryLimiter is a per-process token bucket per key.
// Idle buckets are swept lazily on later calls.
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter creates an in-process limiter
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries:   make(map[string]*limiterEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow takes one token from key's bucket. The bucket refills at perMinute
// tokens per minute and holds at most perMinute tokens.
func (l *MemoryLimiter) Allow(_ context.Context, key string, perMinute int) (bool, time.Duration, error) {
	if perMinute <= 0 {
		return true, 0, nil
	}

	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		}
		l.entries[key] = e
	}
	e.lastUse = now
	l.mu.Unlock()

	if e.limiter.AllowN(now, 1) {
		return true, 0, nil
	}

	r := e.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, delay, nil
}

// sweep drops idle buckets; callers hold l.mu
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterSweepInterval {
		return
	}
	l.lastSweep = now
	for k, e := range l.entries {
		if now.Sub(e.lastUse) > limiterIdleTTL {
			delete(l.entries, k)
		}
	}
}

// RedisLimiter is a fixed one-minute window shared by every server instance
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisLimiter creates a limiter over an existing client
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

// Allow counts the request in the current window
func (l *RedisLimiter) Allow(ctx context.Context, key string, perMinute int) (bool, time.Duration, error) {
	if perMinute <= 0 {
		return true, 0, nil
	}

	now := l.now()
	window := now.Unix() / 60
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, window)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit counter: %w", err)
	}

	if incr.Val() > int64(perMinute) {
		remaining := time.Duration(60-now.Unix()%60) * time.Second
		return false, remaining, nil
	}
	return true, 0, nil
}

// NewRedisClient connects to redisURL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RateLimit throttles authenticated callers per user and anonymous callers per IP.
// It must run after OptionalAuth or RequireAuth. Limiter failures let the request through.
func RateLimit(limiter Limiter, authPerMin, anonPerMin int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := httputil.GetCaller(r)

			key, limit := "ip:"+clientIP(r), anonPerMin
			if id, ok := caller.UserID(); ok {
				key, limit = "user:"+strconv.FormatInt(id, 10), authPerMin
			}

			allowed, retryAfter, err := limiter.Allow(r.Context(), key, limit)
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				logger.Info("rate limited", "key", key, "retry_after", seconds)
				httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests,
					"too many requests, please slow down",
					map[string]interface{}{"retryAfter": seconds},
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP has
// already replaced with the forwarded address when present
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
