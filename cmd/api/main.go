package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/broker"
	"github.com/HoussamEddineSmati/SpendKiler/internal/charts"
	"github.com/HoussamEddineSmati/SpendKiler/internal/config"
	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/handler"
	"github.com/HoussamEddineSmati/SpendKiler/internal/middleware"
	"github.com/HoussamEddineSmati/SpendKiler/internal/repository/postgres"
	"github.com/HoussamEddineSmati/SpendKiler/internal/repository/sqlite"
	"github.com/HoussamEddineSmati/SpendKiler/internal/repository/storage"
	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// repositories is the storage backend selected by DATA_BACKEND
type repositories struct {
	expenses domain.ExpenseRepository
	settings domain.SettingsRepository
	close    func()
}

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.DataBackend).Msg("Failed to open storage")
	}
	defer repos.close()

	// Event fan-out: websocket clients, plus the broker when configured
	hub := websocket.NewHub()
	publishers := websocket.MultiPublisher{hub}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := broker.NewAMQPPublisher(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, 5, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Publishing events to AMQP")
	}

	// Initialize services
	expenseService := service.NewExpenseService(repos.expenses)
	expenseService.SetEventPublisher(publishers)
	settingsService := service.NewSettingsService(repos.settings)
	settingsService.SetEventPublisher(publishers)
	cycleService := service.NewCycleService(repos.expenses, repos.settings)
	cycleService.SetRecentLimit(cfg.RecentExpensesLimit)

	var backupStore service.BackupStore
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3BackupRepository(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 backup storage")
		}
		backupStore = s3Repo
	} else {
		log.Info().Msg("S3 not configured, backups disabled")
	}
	backupService := service.NewBackupService(repos.expenses, backupStore)

	// Background reminder
	reminderWorker := service.NewReminderWorker(repos.settings, publishers, log.Logger, service.ReminderWorkerConfig{
		Hour:     cfg.Reminder.Hour,
		Minute:   cfg.Reminder.Minute,
		Interval: time.Minute,
	})
	reminderWorker.Start(ctx)
	defer reminderWorker.Stop()

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	tokenAuth := middleware.NewTokenAuthMiddleware(cfg.APIToken)
	if !tokenAuth.Enabled() {
		log.Warn().Msg("API_TOKEN not set, API is unauthenticated")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"backend": cfg.DataBackend,
			"clients": hub.ClientCount(),
		})
	})

	handlers := handler.Handlers{
		Expense:   handler.NewExpenseHandler(expenseService, cycleService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Category:  handler.NewCategoryHandler(),
		Cycle:     handler.NewCycleHandler(cycleService, charts.NewChartGenerator()),
		Backup:    handler.NewBackupHandler(backupService),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}
	handler.RegisterRoutes(e, tokenAuth, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.DataBackend).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepositories connects the configured backend and runs its migrations
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.DataBackend == config.BackendPostgres {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &repositories{
			expenses: postgres.NewExpenseRepository(pool),
			settings: postgres.NewSettingsRepository(pool),
			close:    pool.Close,
		}, nil
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite database")
	return &repositories{
		expenses: sqlite.NewExpenseRepository(db),
		settings: sqlite.NewSettingsRepository(db),
		close:    func() { db.Close() },
	}, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
