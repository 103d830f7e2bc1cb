package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// DefaultAuthMinDuration is the minimum time spent on authentication so
// that valid and invalid tokens take about as long.
const DefaultAuthMinDuration = 100 * time.Millisecond

// ErrorWriter renders an error response. The HTTP layer supplies the
// application's single error translator.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator resolves a session token to its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Principal, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	Metrics       metrics.Recorder
	WriteError    ErrorWriter
	// MinDuration pads every attempt. Zero disables padding.
	MinDuration time.Duration
}

// Auth returns a middleware that authenticates API requests.
// The raw token is read from the Authorization header and the resolved
// principal is injected into the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			pad := func() {
				if elapsed := time.Since(start); elapsed < cfg.MinDuration {
					time.Sleep(cfg.MinDuration - elapsed)
				}
			}

			token := extractToken(r)
			principal, err := cfg.Authenticator.Authenticate(r.Context(), token)
			if err != nil {
				reason := "invalid_token"
				if token == "" {
					reason = "missing_token"
				}
				if !apperror.Is(err, apperror.KindUnauthenticated) {
					reason = "lookup_error"
				}

				recorder.IncAuthFailure(reason)
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				pad()
				cfg.WriteError(w, r, err)
				return
			}

			pad()
			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the raw token from the Authorization header.
// Surrounding whitespace is ignored; no scheme prefix is expected.
func extractToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Authorization"))
}
