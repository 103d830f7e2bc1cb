package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// TestLogging_TokenNotLogged ensures session tokens never reach the logs.
func TestLogging_TokenNotLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	wrapped := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	req.Header.Set("Authorization", "0b5f4c3e-9a0c-4f55-bb53-0c2f0b7f1d2e")
	req.Header.Set("User-Agent", "TestAgent/1.0")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if strings.Contains(buf.String(), "0b5f4c3e-9a0c-4f55-bb53-0c2f0b7f1d2e") {
		t.Error("log output contains the session token")
	}
}

// TestLogging_BasicFields verifies that expected non-sensitive fields are logged.
func TestLogging_BasicFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	wrapped := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":"OK"}`))
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/users/logout", nil)
	req.Header.Set("User-Agent", "TestBrowser/2.0")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	expectedFields := []string{
		`"method":"DELETE"`,
		`"path":"/api/users/logout"`,
		`"status_code":200`,
		`"bytes":13`,
		`"user_agent":"TestBrowser/2.0"`,
		`"route":"unmatched"`,
	}

	for _, field := range expectedFields {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("expected log field %s not found in output: %s", field, buf.String())
		}
	}
}

// TestLogging_RoutePattern verifies the chi pattern is logged instead of ids.
func TestLogging_RoutePattern(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Get("/api/contacts/{contactId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts/42", nil))

	if !strings.Contains(buf.String(), `"route":"/api/contacts/{contactId}"`) {
		t.Errorf("expected route pattern in log, got: %s", buf.String())
	}
}

// TestLogging_ErrorStatusLevel verifies error statuses are logged at error level.
func TestLogging_ErrorStatusLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
	}{
		{"success", http.StatusOK, "INFO"},
		{"bad request", http.StatusBadRequest, "WARN"},
		{"unauthorized", http.StatusUnauthorized, "WARN"},
		{"not found", http.StatusNotFound, "WARN"},
		{"too many requests", http.StatusTooManyRequests, "WARN"},
		{"internal error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			wrapped := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

			if !strings.Contains(buf.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected log level %s for status %d, got output: %s", tt.wantLevel, tt.statusCode, buf.String())
			}
		})
	}
}

// TestStatusRecorder_CapturesStatus verifies the recorder captures status codes.
func TestStatusRecorder_CapturesStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusOK, http.StatusNoContent, http.StatusBadRequest, http.StatusInternalServerError} {
		rec := newStatusRecorder(httptest.NewRecorder())
		rec.WriteHeader(code)

		if rec.status != code {
			t.Errorf("status = %d, want %d", rec.status, code)
		}
	}
}

// TestStatusRecorder_DefaultStatus verifies default status is 200 OK.
func TestStatusRecorder_DefaultStatus(t *testing.T) {
	t.Parallel()

	rec := newStatusRecorder(httptest.NewRecorder())
	_, _ = rec.Write([]byte("hello"))

	if rec.status != http.StatusOK {
		t.Errorf("default status = %d, want %d", rec.status, http.StatusOK)
	}
	if rec.bytes != 5 {
		t.Errorf("bytes = %d, want 5", rec.bytes)
	}
}

// TestStatusRecorder_DoubleWriteHeader ensures only the first WriteHeader takes effect.
func TestStatusRecorder_DoubleWriteHeader(t *testing.T) {
	t.Parallel()

	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)

	if rec.status != http.StatusCreated {
		t.Errorf("status after double write = %d, want %d", rec.status, http.StatusCreated)
	}
}
