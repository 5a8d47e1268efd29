package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/config"
	"github.com/foliowatch/foliowatch/internal/infrastructure/cache"
	"github.com/foliowatch/foliowatch/internal/infrastructure/database"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
	"github.com/foliowatch/foliowatch/internal/presentation/handlers"
	"github.com/foliowatch/foliowatch/internal/presentation/middleware"
)

func main() {
	// Load .env if present, real environment wins
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	logger.Info("Starting foliowatch API",
		zap.Int("port", cfg.API.Port),
	)

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	// Connect to Redis cache (optional)
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.Redis, cfg.API.CacheTTL, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Create repositories
	watchlistRepo := database.NewWatchlistRepo(db.DB())
	alertRepo := database.NewAlertRepo(db.DB())
	feedRepo := database.NewFeedRepo(db.DB())

	// Upstream gateways used by the API surface
	device := gateway.NewDevice(cfg.Device, logger)
	logo := gateway.NewLogo(cfg.Logo, logger)

	// Create services
	watchlistService := services.NewWatchlistService(watchlistRepo, redisCache, logger)
	alertService := services.NewAlertService(alertRepo, logger)
	feedService := services.NewFeedService(feedRepo, alertRepo, logger)
	logoService := services.NewLogoService(logo, redisCache, cfg.Logo.CacheTTL, logger)

	// The rotation loop lives in this binary so the pause and resume
	// endpoints control the running scheduler directly.
	feedScheduler := services.NewFeedScheduler(feedRepo, device, cfg.Tracker.FeedCycleTime, logger)

	// Create handlers
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService, logger)
	alertHandler := handlers.NewAlertHandler(alertService, logger)
	feedHandler := handlers.NewFeedHandler(feedService, feedScheduler, logger)
	logoHandler := handlers.NewLogoHandler(logoService, logger)

	var cacheChecker handlers.HealthChecker
	if redisCache != nil {
		cacheChecker = redisCache
	}
	var deviceChecker handlers.HealthChecker
	if cfg.Device.BaseURL != "" {
		deviceChecker = device
	}
	healthHandler := handlers.NewHealthHandler(db, cacheChecker, deviceChecker)

	// Setup router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimiter(cfg.API.RateLimitRPS))

	// Health endpoints (no rate limiting)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		watchlistHandler.RegisterRoutes(r)
		alertHandler.RegisterRoutes(r)
		feedHandler.RegisterRoutes(r)
		logoHandler.RegisterRoutes(r)
	})

	// Start the feed rotation loop
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	feedScheduler.Start(schedulerCtx)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Run server in goroutine
	go func() {
		logger.Info("API server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, shutting down server...")

	feedScheduler.Stop()
	schedulerCancel()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
