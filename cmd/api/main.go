package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexmurray/portfolio-backend/internal/api/router"
	"github.com/alexmurray/portfolio-backend/internal/app/bootstrap"
	appconfig "github.com/alexmurray/portfolio-backend/internal/config"
	"github.com/alexmurray/portfolio-backend/internal/enquiries"
	"github.com/alexmurray/portfolio-backend/internal/httpx"
	"github.com/alexmurray/portfolio-backend/internal/notify"
	"github.com/alexmurray/portfolio-backend/internal/observability/metrics"
	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logFormat := "json"
	if cfg.Env == "development" {
		logFormat = "text"
	}
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: logFormat})
	logger.Info("starting portfolio-backend API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Initialize the enquiry store. Without DATABASE_URL the server runs
	// on an in-memory store, enough for local frontend work.
	var (
		repo      enquiries.Repository
		storePing func(ctx context.Context) error
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := pool.Ping(pingCtx); err != nil {
			logger.Error("database unreachable", "error", err)
			cancel()
			os.Exit(1)
		}
		cancel()

		pgRepo := enquiries.NewPostgresRepository(pool)
		repo = pgRepo
		storePing = pgRepo.Ping
		logger.Info("enquiry store ready", "backend", "postgres")
	} else {
		repo = enquiries.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory enquiry store")
	}

	// Optional Redis-backed stats cache.
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	statsCache := enquiries.NewCachedStats(repo, redisClient, cfg.StatsCacheTTL, logger)
	repo = enquiries.NewInvalidatingRepository(repo, statsCache)

	// Metrics
	registry := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(registry)

	// Notification email
	sender := bootstrap.BuildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(sender, cfg.NotifyEmail, cfg.NotifyName, cfg.NotifyTimeout, apiMetrics, logger)

	// Initialize handlers
	enquiriesHandler := enquiries.NewHandler(repo, statsCache, notifier, apiMetrics, logger)
	boundary := httpx.NewBoundary(logger, cfg.Env == "development")

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		Boundary:           boundary,
		Enquiries:          enquiriesHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		SubmitRatePerMin:   cfg.SubmitRatePerMin,
		SubmitBurst:        cfg.SubmitBurst,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		StorePing:          storePing,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
