package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins is a list of origins allowed to make cross-origin requests.
	// Use specific origins in production; never use "*" with credentials.
	AllowedOrigins []string

	// AllowedMethods specifies the allowed HTTP methods.
	// Default: GET, POST, PUT, PATCH, DELETE, OPTIONS
	AllowedMethods []string

	// AllowedHeaders specifies the allowed request headers.
	// Default: Content-Type, Authorization, X-Request-ID
	AllowedHeaders []string

	// ExposedHeaders specifies which headers the browser can access.
	// Default: X-Request-ID, rate limit headers, Retry-After
	ExposedHeaders []string

	// AllowCredentials indicates whether credentials (cookies, auth) are allowed.
	// Be careful: if true, AllowedOrigins cannot contain "*".
	AllowCredentials bool

	// MaxAge is the value for Access-Control-Max-Age header (in seconds).
	// Default: 86400 (24 hours)
	MaxAge int
}

// DefaultCORSConfig returns CORS defaults for the contact API. Origins
// must be configured explicitly.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			"Accept",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: 86400,
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing,
// including preflight OPTIONS requests. Origins not on the list get no
// CORS headers, and their preflights are refused with 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	match := newOriginMatcher(cfg.AllowedOrigins)
	preflight := map[string]string{
		"Access-Control-Allow-Methods": strings.Join(cfg.AllowedMethods, ", "),
		"Access-Control-Allow-Headers": strings.Join(cfg.AllowedHeaders, ", "),
	}
	if cfg.MaxAge > 0 {
		preflight["Access-Control-Max-Age"] = strconv.Itoa(cfg.MaxAge)
	}
	exposed := strings.Join(cfg.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			isPreflight := r.Method == http.MethodOptions
			if !match(origin) {
				if isPreflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if isPreflight {
				for k, v := range preflight {
					h.Set(k, v)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// newOriginMatcher returns a case-insensitive matcher for origins.
// Entries like "*.example.com" match any subdomain of example.com but not
// example.com itself or notexample.com. An empty list matches nothing.
func newOriginMatcher(allowed []string) func(string) bool {
	exact := make(map[string]bool, len(allowed))
	var suffixes []string
	for _, a := range allowed {
		a = strings.ToLower(a)
		if strings.HasPrefix(a, "*.") {
			suffixes = append(suffixes, a[1:])
			continue
		}
		exact[a] = true
	}

	return func(origin string) bool {
		origin = strings.ToLower(origin)
		if exact[origin] {
			return true
		}
		for _, suffix := range suffixes {
			if !strings.HasSuffix(origin, suffix) {
				continue
			}
			host := strings.TrimSuffix(origin, suffix)
			if i := strings.Index(host, "://"); i >= 0 {
				host = host[i+3:]
			}
			if host != "" {
				return true
			}
		}
		return false
	}
}
