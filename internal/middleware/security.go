package middleware

import (
	"net/http"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
)

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool
}

// securityHeaders are set on every response. The API only serves JSON,
// so the content policy forbids everything.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"X-XSS-Protection":             "0",
	"Referrer-Policy":              "strict-origin-when-cross-origin",
	"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
	"Permissions-Policy":           "geolocation=(), microphone=(), camera=(), payment=(), usb=()",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Cross-Origin-Resource-Policy": "same-origin",
	"Cache-Control":                "no-store",
}

const hstsValue = "max-age=31536000; includeSubDomains; preload"

// Security returns a middleware that applies security headers to all
// responses. HSTS is only sent outside development.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize returns a middleware that limits request body size.
// Declared oversize bodies are rejected up front; streamed bodies fail on
// read once they cross the limit.
func MaxBodySize(maxBytes int64, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, r, apperror.Validation("Request body too large"))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
