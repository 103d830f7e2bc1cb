// Package main is the entrypoint for the contact management API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/cache"
	"github.com/IndraW01/API-Contact-Management/internal/config"
	"github.com/IndraW01/API-Contact-Management/internal/handler"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/middleware"
	"github.com/IndraW01/API-Contact-Management/internal/migrations"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
	"github.com/IndraW01/API-Contact-Management/internal/server"
	"github.com/IndraW01/API-Contact-Management/internal/service"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, repo.DB()); err != nil {
			logger.Error("failed to apply migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			repo.Close()
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Interfaces stay nil when Redis is off; a typed nil *cache.Cache
	// would look configured to the services and middleware.
	var (
		cacheClient *cache.Cache
		sessions    service.SessionCache
		redisHealth handler.HealthChecker
		userLimiter middleware.UserLimiter
		ipLimiter   middleware.IPLimiter
	)
	if cfg.RedisEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.SessionCacheTTL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		logger.Info("connected to Redis")

		sessions = cacheClient
		redisHealth = cacheClient
		if cfg.RateLimitUserEnabled {
			userLimiter = cacheClient
		}
		if cfg.RateLimitPublicEnabled {
			ipLimiter = cacheClient
		}
	} else {
		logger.Warn("REDIS_URL not set; session cache and rate limiting disabled")
	}

	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		metricsHandler = prom.Handler()
	}

	v := validation.New()
	guard := service.NewGuard(repo, repo)
	userService := service.NewUserService(repo, sessions, auth.NewHasher(auth.DefaultParams), v, recorder, logger)
	contactService := service.NewContactService(repo, guard, v, recorder)
	addressService := service.NewAddressService(repo, guard, v, recorder)
	authenticator := service.NewAuthenticator(repo, sessions, recorder, logger)

	errs := handler.NewErrorWriter(logger)
	handlers := server.Handlers{
		Users:     handler.NewUserHandler(userService, errs, logger),
		Contacts:  handler.NewContactHandler(contactService, v, errs),
		Addresses: handler.NewAddressHandler(addressService, v, errs),
		Health:    handler.NewHealthHandler(repo, redisHealth),
		Errors:    errs,
	}

	r := server.NewRouter(handlers, server.RouterConfig{
		Logger:          logger,
		Metrics:         recorder,
		MetricsHandler:  metricsHandler,
		Authenticator:   authenticator,
		AuthMinDuration: cfg.AuthMinDuration,
		UserLimiter:     userLimiter,
		UserRPM:         cfg.RateLimitUserRPM,
		UserBurst:       cfg.RateLimitUserBurst,
		IPLimiter:       ipLimiter,
		IPRPS:           cfg.RateLimitPublicRPS,
		IPBurst:         cfg.RateLimitPublicBurst,
		IsDevelopment:   cfg.IsDevelopment(),
		AllowedOrigins:  cfg.GetCORSAllowedOrigins(),
		MaxBodySize:     cfg.MaxRequestBodySize,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: Redis closes before the database pool.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"redis", cfg.RedisEnabled(),
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "contact-api")
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL strips the password from a DSN, keeping the username.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}
	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
