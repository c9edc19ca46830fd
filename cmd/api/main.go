// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/leadflow/internal/admin"
	"github.com/carterperez-dev/leadflow/internal/auth"
	"github.com/carterperez-dev/leadflow/internal/config"
	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/events"
	"github.com/carterperez-dev/leadflow/internal/health"
	"github.com/carterperez-dev/leadflow/internal/lead"
	"github.com/carterperez-dev/leadflow/internal/metrics"
	"github.com/carterperez-dev/leadflow/internal/middleware"
	"github.com/carterperez-dev/leadflow/internal/performance"
	"github.com/carterperez-dev/leadflow/internal/policy"
	"github.com/carterperez-dev/leadflow/internal/reminder"
	"github.com/carterperez-dev/leadflow/internal/server"
	"github.com/carterperez-dev/leadflow/internal/task"
	"github.com/carterperez-dev/leadflow/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envPath := flag.String("env", ".env", "path to dotenv file")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load dotenv file", "path", *envPath, "error", err)
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)
	core.ExposeErrorDetails(!cfg.IsProduction())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if cfg.Database.AutoMigrate {
		version, migErr := core.Migrate(cfg.Database.URL)
		if migErr != nil {
			return migErr
		}
		logger.Info("database migrated", "version", version)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	healthDeps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPub, amqpErr := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.App.Name)
		if amqpErr != nil {
			logger.Warn("event bus unavailable, assignment events disabled", "error", amqpErr)
		} else {
			publisher = amqpPub
			healthDeps = append(healthDeps, health.Dependency{
				Name:     "amqp",
				Checker:  amqpPub,
				Optional: true,
			})
			logger.Info("event bus connected", "exchange", cfg.AMQP.Exchange)
		}
	}

	hasher, err := core.NewPasswordHasher(cfg.Password)
	if err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"expires_in", cfg.JWT.AccessTokenExpire.String(),
	)

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}

	gate := policy.New()

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, hasher, gate)
	userHandler := user.NewHandler(userSvc)

	if err := userSvc.EnsureAdmin(
		ctx,
		cfg.Seed.AdminName,
		cfg.Seed.AdminEmail,
		cfg.Seed.AdminPassword,
	); err != nil {
		return err
	}

	blacklist := auth.NewRedisBlacklist(redis.Client, cfg.Redis.KeyPrefix)
	authSvc := auth.NewService(jwtManager, userSvc, hasher, blacklist)
	authHandler := auth.NewHandler(authSvc)

	leadRepo := lead.NewRepository(db.DB, appMetrics)
	leadSvc := lead.NewService(leadRepo, gate, publisher, appMetrics)
	leadHandler := lead.NewHandler(leadSvc)

	reminderRepo := reminder.NewRepository(db.DB, appMetrics)
	reminderSvc := reminder.NewService(reminderRepo, gate)
	reminderHandler := reminder.NewHandler(reminderSvc)

	taskRepo := task.NewRepository(db.DB, appMetrics)
	taskSvc := task.NewService(taskRepo, gate)
	taskHandler := task.NewHandler(taskSvc)

	perfCache := core.NewCache(redis.Client, cfg.Redis.KeyPrefix+":performance", cfg.Performance.CacheTTL)
	perfRepo := performance.NewRepository(db.DB, appMetrics)
	perfSvc := performance.NewService(perfRepo, perfCache, cfg.Performance.DefaultTrendDays)
	perfHandler := performance.NewHandler(perfSvc)

	healthHandler := health.NewHandler(healthDeps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:       db.DB.Stats,
		RedisStats:    redis.PoolStats,
		DBPing:        db.Ping,
		RedisPing:     redis.Ping,
		UsersByRole:   userSvc.CountByRole,
		LeadsByStatus: leadSvc.CountByStatus,
		Reminders:     reminderSvc,
		Tasks:         taskSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(appMetrics.Middleware)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Prefix: cfg.Redis.KeyPrefix,
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, appMetrics.Handler())
	}

	authenticator := middleware.Authenticator(authSvc, userSvc)
	authThrottle := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:   "auth",
		Prefix: cfg.Redis.KeyPrefix,
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
		),
		FailOpen: true,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authThrottle)
		userHandler.RegisterRoutes(r, authenticator)
		leadHandler.RegisterRoutes(r, authenticator)
		reminderHandler.RegisterRoutes(r, authenticator)
		taskHandler.RegisterRoutes(r, authenticator)
		perfHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	drainDelay := cfg.Server.DrainDelay
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event bus close error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(core.NewTraceHandler(handler))
}
