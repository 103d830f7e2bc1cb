package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/cache"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// countingLimiter allows the first `allow` requests per key.
type countingLimiter struct {
	allow int
	seen  map[string]int
	err   error
}

func newCountingLimiter(allow int) *countingLimiter {
	return &countingLimiter{allow: allow, seen: map[string]int{}}
}

func (l *countingLimiter) check(key string) (*cache.RateLimitResult, error) {
	if l.err != nil {
		return &cache.RateLimitResult{Allowed: true, Limit: l.allow, Remaining: int64(l.allow)}, l.err
	}
	l.seen[key]++
	remaining := l.allow - l.seen[key]
	if remaining < 0 {
		return &cache.RateLimitResult{Allowed: false, Limit: l.allow, RetryAfter: 1500 * time.Millisecond, ResetAt: time.Now()}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Limit: l.allow, Remaining: int64(remaining), ResetAt: time.Now()}, nil
}

func (l *countingLimiter) CheckUserRateLimit(_ context.Context, username string, _, _ int) (*cache.RateLimitResult, error) {
	return l.check("user:" + username)
}

func (l *countingLimiter) CheckIPRateLimit(_ context.Context, ip string, _, _ int) (*cache.RateLimitResult, error) {
	return l.check("ip:" + ip)
}

func rateLimitConfig(limiter *countingLimiter, recorder metrics.Recorder) RateLimitConfig {
	return RateLimitConfig{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:    recorder,
		WriteError: stubErrorWriter,
		Users:      limiter,
		UserRPM:    600,
		UserBurst:  2,
		IPs:        limiter,
		IPRPS:      5,
		IPBurst:    2,
	}
}

func userRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	ctx := auth.ContextWithPrincipal(req.Context(), &model.Principal{Username: username})
	return req.WithContext(ctx)
}

func TestRateLimitUser(t *testing.T) {
	recorder := metrics.NewInMemory()
	handler := RateLimitUser(rateLimitConfig(newCountingLimiter(2), recorder))(okHandler())

	var codes []int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, userRequest("alice"))
		codes = append(codes, rec.Code)

		if i == 2 {
			if got := rec.Header().Get("Retry-After"); got != "2" {
				t.Errorf("Retry-After = %q, want 2", got)
			}
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Errorf("X-RateLimit-Limit = %q, want 2", got)
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}

	// bob has a separate bucket
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, userRequest("bob"))
	if rec.Code != http.StatusOK {
		t.Errorf("bob status = %d, want 200", rec.Code)
	}

	if got := recorder.Snapshot().RateLimited["user"]; got != 1 {
		t.Errorf("rate limited[user] = %d, want 1", got)
	}
}

func TestRateLimitUser_FailsOpen(t *testing.T) {
	limiter := newCountingLimiter(1)
	limiter.err = errors.New("redis down")
	handler := RateLimitUser(rateLimitConfig(limiter, nil))(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, userRequest("alice"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestRateLimitUser_DisabledWithoutLimiter(t *testing.T) {
	cfg := rateLimitConfig(newCountingLimiter(0), nil)
	cfg.Users = nil
	handler := RateLimitUser(cfg)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, userRequest("alice"))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimitIP(t *testing.T) {
	recorder := metrics.NewInMemory()
	handler := RateLimitIP(rateLimitConfig(newCountingLimiter(2), recorder))(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Different source ports share one bucket.
	send("10.0.0.1:1111")
	send("10.0.0.1:2222")
	if code := send("10.0.0.1:3333"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
	if code := send("10.0.0.2:1111"); code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", code)
	}
	if got := recorder.Snapshot().RateLimited["ip"]; got != 1 {
		t.Errorf("rate limited[ip] = %d, want 1", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.10:5555", "192.168.1.10"},
		{"[::1]:8080", "::1"},
		{"203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{10 * time.Second, 10},
	}

	for _, tt := range tests {
		if got := retryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
