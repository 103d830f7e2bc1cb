package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pingFunc adapts a function to HealthChecker.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") })
)

func serveHealth(t *testing.T, handle http.HandlerFunc, path string) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	handle(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHealthz_IgnoresDependencies(t *testing.T) {
	h := NewHealthHandler(down, down)

	status, resp := serveHealth(t, h.Healthz, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  HealthChecker
		wantStatus int
		want       HealthResponse
	}{
		{
			name: "postgres and redis up", db: up, cache: up,
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "ok", Checks: map[string]string{"postgres": "ok", "redis": "ok"}},
		},
		{
			name: "running without redis", db: up,
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "ok", Checks: map[string]string{"postgres": "ok", "redis": "not configured"}},
		},
		{
			name: "postgres down", db: down, cache: up,
			wantStatus: http.StatusServiceUnavailable,
			want:       HealthResponse{Status: "unhealthy", Checks: map[string]string{"postgres": "unavailable", "redis": "ok"}},
		},
		{
			name: "redis down", db: up, cache: down,
			wantStatus: http.StatusServiceUnavailable,
			want:       HealthResponse{Status: "unhealthy", Checks: map[string]string{"postgres": "ok", "redis": "unavailable"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := serveHealth(t, NewHealthHandler(tt.db, tt.cache).Readyz, "/readyz")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestReadyz_PingsWithDeadline(t *testing.T) {
	var hasDeadline bool
	db := pingFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	status, _ := serveHealth(t, NewHealthHandler(db, nil).Readyz, "/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, hasDeadline, "readiness pings must be bounded")
}

func TestReadyz_HidesPingErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(down, nil).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
