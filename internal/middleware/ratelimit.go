package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/cache"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
)

// UserLimiter consumes one request from a user's bucket.
type UserLimiter interface {
	CheckUserRateLimit(ctx context.Context, username string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// IPLimiter consumes one request from a client IP's bucket.
type IPLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger     *slog.Logger
	Metrics    metrics.Recorder
	WriteError ErrorWriter

	// Per-user limit on authenticated routes.
	Users     UserLimiter
	UserRPM   int
	UserBurst int

	// Per-IP limit on register and login.
	IPs     IPLimiter
	IPRPS   int
	IPBurst int
}

func (cfg RateLimitConfig) recorder() metrics.Recorder {
	if cfg.Metrics == nil {
		return metrics.NewNoop()
	}
	return cfg.Metrics
}

// RateLimitUser returns middleware that rate limits requests per user.
// It must run after Auth. A nil Users limiter disables it.
func RateLimitUser(cfg RateLimitConfig) func(http.Handler) http.Handler {
	recorder := cfg.recorder()
	return func(next http.Handler) http.Handler {
		if cfg.Users == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := auth.UsernameFromContext(r.Context())
			if username == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Users.CheckUserRateLimit(r.Context(), username, cfg.UserRPM, cfg.UserBurst)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("scope", "user"),
				)
			}
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, result)
			if !result.Allowed {
				recorder.IncRateLimited("user")
				reject(w, r, cfg, "user", result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitIP returns middleware that rate limits requests per client IP.
// Used on the unauthenticated register and login routes. A nil IPs limiter
// disables it.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	recorder := cfg.recorder()
	return func(next http.Handler) http.Handler {
		if cfg.IPs == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			result, err := cfg.IPs.CheckIPRateLimit(r.Context(), ip, cfg.IPRPS, cfg.IPBurst)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("scope", "ip"),
				)
			}
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				recorder.IncRateLimited("ip")
				reject(w, r, cfg, "ip", result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, cfg RateLimitConfig, scope string, result *cache.RateLimitResult) {
	retry := retryAfterSeconds(result.RetryAfter)
	cfg.Logger.Warn("rate limit exceeded",
		slog.String("scope", scope),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.Int("retry_after_seconds", retry),
		slog.String("request_id", GetRequestID(r.Context())),
	)

	w.Header().Set("Retry-After", strconv.Itoa(retry))
	cfg.WriteError(w, r, apperror.RateLimited())
}

func retryAfterSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, result *cache.RateLimitResult) {
	if result.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// clientIP returns the request's remote IP without the port. chi's RealIP
// middleware has already applied X-Forwarded-For and X-Real-IP.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
