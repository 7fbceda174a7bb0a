// Package main is the entrypoint for the DeviceHub API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/devicehub/devicehub/internal/auth"
	"github.com/devicehub/devicehub/internal/blob"
	blobfs "github.com/devicehub/devicehub/internal/blob/fs"
	blobmemory "github.com/devicehub/devicehub/internal/blob/memory"
	blobminio "github.com/devicehub/devicehub/internal/blob/minio"
	blobs3 "github.com/devicehub/devicehub/internal/blob/s3"
	"github.com/devicehub/devicehub/internal/cache"
	"github.com/devicehub/devicehub/internal/config"
	"github.com/devicehub/devicehub/internal/datastore"
	"github.com/devicehub/devicehub/internal/handler"
	"github.com/devicehub/devicehub/internal/metrics"
	"github.com/devicehub/devicehub/internal/middleware"
	"github.com/devicehub/devicehub/internal/repository"
	"github.com/devicehub/devicehub/internal/seed"
	"github.com/devicehub/devicehub/internal/server"
	"github.com/devicehub/devicehub/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Image storage
	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize image storage",
			slog.String("driver", cfg.BlobDriver),
			slog.String("error", sanitizeError(err, cfg.Minio.SecretKey, cfg.S3.SecretAccessKey)),
		)
		os.Exit(1)
	}
	logger.Info("image storage ready", "driver", cfg.BlobDriver)

	// Cache (optional)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	// Datastore and repositories
	store := datastore.New()
	userRepo := repository.NewInMemoryUserRepository(store)
	brandRepo := repository.NewInMemoryBrandRepository(store)
	deviceRepo := repository.NewInMemoryDeviceRepository(store)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewPrometheus(registry)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}
	sizes := func() map[string]int {
		s := store.Stats()
		return map[string]int{
			metrics.KindUser:   s.Users,
			metrics.KindBrand:  s.Brands,
			metrics.KindDevice: s.Devices,
		}
	}
	if err := metrics.RegisterCollectionSizes(registry, sizes); err != nil {
		logger.Error("failed to register collection gauges", "error", err)
		os.Exit(1)
	}

	// Services
	hasher := auth.NewArgon2Hasher(auth.Params{
		Time:    cfg.Argon2.Time,
		Memory:  cfg.Argon2.Memory,
		Threads: cfg.Argon2.Threads,
	})
	userService := service.NewUserService(userRepo, blobStore, hasher, recorder, logger)
	brandService := service.NewBrandService(brandRepo, recorder, logger)
	deviceService := service.NewDeviceService(deviceRepo, userRepo, brandRepo, recorder)

	if cfg.SeedData {
		if _, err := seed.Load(ctx, seed.Services{
			Users:   userService,
			Brands:  brandService,
			Devices: deviceService,
		}, time.Now(), logger); err != nil {
			logger.Error("failed to load initial data", "error", err)
			os.Exit(1)
		}
	}

	// Handlers
	h := handler.New()
	var blobHealth, cacheHealth handler.HealthChecker
	if hc, ok := blobStore.(handler.HealthChecker); ok {
		blobHealth = hc
	}
	var loginLimiter handler.LoginLimiter
	var ipLimiter middleware.IPLimiter
	if cacheClient != nil {
		cacheHealth = cacheClient
		loginLimiter = cacheClient
		ipLimiter = cacheClient
	}

	handlers := routes{
		root:    h,
		health:  handler.NewHealthHandler(blobHealth, cacheHealth, sizes),
		metrics: handler.NewMetricsHandler(registry),
		users:   handler.NewUserHandler(userService, deviceService, cfg.MaxImageSize, logger),
		brands:  handler.NewBrandHandler(brandService, deviceService, logger),
		devices: handler.NewDeviceHandler(deviceService, cfg.MaxImageSize, logger),
		auth:    handler.NewAuthHandler(userService, loginLimiter, logger),
	}

	r := setupRouter(handlers, ipLimiter, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newBlobStore builds the image store selected by BLOB_DRIVER.
func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	driver, err := blob.ParseDriver(cfg.BlobDriver)
	if err != nil {
		return nil, err
	}

	switch driver {
	case blob.DriverMemory:
		return blobmemory.New(), nil
	case blob.DriverMinio:
		return blobminio.New(ctx, blobminio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
	case blob.DriverS3:
		return blobs3.New(ctx, blobs3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	case blob.DriverFilesystem:
		return blobfs.New(cfg.BlobFSRoot)
	default:
		return nil, fmt.Errorf("%w: %q", blob.ErrUnknownDriver, driver)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "devicehub")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routes bundles the HTTP handlers mounted by setupRouter.
type routes struct {
	root    *handler.Handler
	health  *handler.HealthHandler
	metrics http.Handler
	users   *handler.UserHandler
	brands  *handler.BrandHandler
	devices *handler.DeviceHandler
	auth    *handler.AuthHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(h routes, ipLimiter middleware.IPLimiter, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))

	// Probes and metrics
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Method(http.MethodGet, "/metrics", h.metrics)
	r.Get("/", h.root.Hello)

	jsonBody := chi.Chain(
		middleware.MaxBodySize(cfg.MaxRequestBodySize),
		middleware.RequireContentType("application/json"),
	)
	imageBody := middleware.RequireContentType("image/png", "application/octet-stream", "multipart/form-data")

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: ipLimiter,
			Enabled: cfg.RateLimitEnabled,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		}))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.users.List)
			r.Get("/{id}", h.users.Get)
			r.With(jsonBody...).Put("/{id}", h.users.Create)
			r.With(jsonBody...).Patch("/{id}", h.users.Update)
			r.Delete("/{id}", h.users.Delete)
			r.With(jsonBody...).Put("/{id}/password", h.users.ChangePassword)
			r.Get("/{id}/devices", h.users.Devices)
			r.Get("/{id}/image", h.users.Image)
			r.With(imageBody).Put("/{id}/image", h.users.PutImage)
			r.Delete("/{id}/image", h.users.DeleteImage)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", h.brands.List)
			r.Get("/{id}", h.brands.Get)
			r.With(jsonBody...).Put("/{id}", h.brands.Create)
			r.With(jsonBody...).Patch("/{id}", h.brands.Update)
			r.Delete("/{id}", h.brands.Delete)
			r.Get("/{id}/devices", h.brands.Devices)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", h.devices.List)
			r.Get("/{id}", h.devices.Get)
			r.With(jsonBody...).Put("/{id}", h.devices.Put)
			r.With(jsonBody...).Patch("/{id}", h.devices.Patch)
			r.Delete("/{id}", h.devices.Delete)
			r.Get("/{id}/image", h.devices.Image)
			r.With(imageBody).Put("/{id}/image", h.devices.PutImage)
		})

		r.With(jsonBody...).Post("/auth/verify", h.auth.Verify)
	})

	r.NotFound(h.root.NotFound)
	r.MethodNotAllowed(h.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes secrets and URL credentials from an error message.
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
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
