package handler

import (
	"context"
	"net/http"
	"time"
)

const readyTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// cache is nil when Redis is not configured; db is nil only in tests.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe. It performs no dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is the readiness probe. It returns 503 when a configured
// dependency fails to answer a ping.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, 2)
	healthy := true
	for name, checker := range map[string]HealthChecker{"postgres": h.db, "redis": h.cache} {
		switch {
		case checker == nil:
			checks[name] = "not configured"
		case checker.Ping(ctx) != nil:
			checks[name] = "unavailable"
			healthy = false
		default:
			checks[name] = "ok"
		}
	}

	resp := HealthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
