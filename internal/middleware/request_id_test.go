package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"client uuid kept", "0d7a3a8e-5c4b-4f61-9a55-3b1f6e2c9d10", true},
		{"dotted trace id kept", "contact-web.42_retry", true},
		{"oversized id replaced", strings.Repeat("a", maxRequestIDLength+1), false},
		{"log injection replaced", "abc\nlevel=ERROR msg=forged", false},
		{"spaces replaced", "hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got != fromCtx {
				t.Fatalf("response header %q differs from context %q", got, fromCtx)
			}
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("request id = %q, want %q", got, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("request id %q is not a generated UUID", got)
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID = %q, want empty", got)
	}
	if got := GetRequestID(WithRequestID(context.Background(), "req-1")); got != "req-1" {
		t.Errorf("GetRequestID = %q, want req-1", got)
	}
}
