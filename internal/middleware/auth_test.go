package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
)

type stubAuthenticator struct {
	tokens map[string]string
	err    error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*model.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if username, ok := s.tokens[token]; ok && token != "" {
		return &model.Principal{Username: username}, nil
	}
	return nil, apperror.Unauthenticated(apperror.MsgUnauthorized)
}

func newAuthMiddleware(authn Authenticator, recorder metrics.Recorder, minDuration time.Duration) func(http.Handler) http.Handler {
	return Auth(AuthConfig{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Authenticator: authn,
		Metrics:       recorder,
		WriteError:    stubErrorWriter,
		MinDuration:   minDuration,
	})
}

func TestAuth(t *testing.T) {
	authn := stubAuthenticator{tokens: map[string]string{"good-token": "test"}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantReason string
	}{
		{"valid token", "good-token", http.StatusOK, ""},
		{"surrounding whitespace ignored", "  good-token ", http.StatusOK, ""},
		{"missing token", "", http.StatusUnauthorized, "missing_token"},
		{"unknown token", "salah", http.StatusUnauthorized, "invalid_token"},
		{"bearer scheme is not stripped", "Bearer good-token", http.StatusUnauthorized, "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := metrics.NewInMemory()
			var gotUser string
			handler := newAuthMiddleware(authn, recorder, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = auth.UsernameFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUser != "test" {
				t.Errorf("principal = %q, want test", gotUser)
			}
			if tt.wantReason != "" {
				if got := recorder.Snapshot().AuthFailures[tt.wantReason]; got != 1 {
					t.Errorf("auth failures[%s] = %d, want 1", tt.wantReason, got)
				}
				if !strings.Contains(rec.Body.String(), `"errors":"Unauthorized"`) {
					t.Errorf("unexpected body: %s", rec.Body.String())
				}
			}
		})
	}
}

func TestAuth_LookupErrorIsNotUnauthorized(t *testing.T) {
	recorder := metrics.NewInMemory()
	authn := stubAuthenticator{err: apperror.Internal(errors.New("db down"))}
	handler := newAuthMiddleware(authn, recorder, 0)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := recorder.Snapshot().AuthFailures["lookup_error"]; got != 1 {
		t.Errorf("lookup_error failures = %d, want 1", got)
	}
}

func TestAuth_MinDuration(t *testing.T) {
	authn := stubAuthenticator{tokens: map[string]string{"good-token": "test"}}
	handler := newAuthMiddleware(authn, nil, 30*time.Millisecond)(okHandler())

	for _, token := range []string{"good-token", "salah", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()

		start := time.Now()
		handler.ServeHTTP(rec, req)

		if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
			t.Errorf("token %q answered in %v, want at least 30ms", token, elapsed)
		}
	}
}
