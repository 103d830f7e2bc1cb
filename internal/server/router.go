package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/IndraW01/API-Contact-Management/internal/handler"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/middleware"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Users     *handler.UserHandler
	Contacts  *handler.ContactHandler
	Addresses *handler.AddressHandler
	Health    *handler.HealthHandler
	Errors    *handler.ErrorWriter
}

// RouterConfig carries the collaborators and limits of the HTTP pipeline.
// Nil limiters disable rate limiting, a nil MetricsHandler hides /metrics.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	MetricsHandler http.Handler

	Authenticator   middleware.Authenticator
	AuthMinDuration time.Duration

	UserLimiter middleware.UserLimiter
	UserRPM     int
	UserBurst   int
	IPLimiter   middleware.IPLimiter
	IPRPS       int
	IPBurst     int

	IsDevelopment  bool
	AllowedOrigins []string
	MaxBodySize    int64
}

// NewRouter builds the chi route tree.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	writeError := middleware.ErrorWriter(h.Errors.Write)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, writeError))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	r.Use(middleware.MaxBodySize(cfg.MaxBodySize, writeError))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	limits := middleware.RateLimitConfig{
		Logger:     cfg.Logger,
		Metrics:    cfg.Metrics,
		WriteError: writeError,
		Users:      cfg.UserLimiter,
		UserRPM:    cfg.UserRPM,
		UserBurst:  cfg.UserBurst,
		IPs:        cfg.IPLimiter,
		IPRPS:      cfg.IPRPS,
		IPBurst:    cfg.IPBurst,
	}

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitIP(limits))
			r.Post("/users", h.Users.Register)
			r.Post("/users/login", h.Users.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(middleware.AuthConfig{
				Logger:        cfg.Logger,
				Authenticator: cfg.Authenticator,
				Metrics:       cfg.Metrics,
				WriteError:    writeError,
				MinDuration:   cfg.AuthMinDuration,
			}))
			r.Use(middleware.RateLimitUser(limits))

			r.Get("/users/current", h.Users.Current)
			r.Patch("/users/current", h.Users.Update)
			r.Delete("/users/logout", h.Users.Logout)

			r.Route("/contacts", func(r chi.Router) {
				r.Post("/", h.Contacts.Create)
				r.Get("/", h.Contacts.Search)

				r.Route("/{contactId}", func(r chi.Router) {
					r.Get("/", h.Contacts.Get)
					r.Put("/", h.Contacts.Update)
					r.Delete("/", h.Contacts.Remove)

					r.Post("/addresses", h.Addresses.Create)
					r.Get("/addresses", h.Addresses.List)
					r.Get("/addresses/{addressId}", h.Addresses.Get)
					r.Put("/addresses/{addressId}", h.Addresses.Update)
					r.Delete("/addresses/{addressId}", h.Addresses.Remove)
				})
			})
		})
	})

	return r
}
