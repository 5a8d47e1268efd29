package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/config"
	"github.com/foliowatch/foliowatch/internal/infrastructure/cache"
	"github.com/foliowatch/foliowatch/internal/infrastructure/database"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
	"github.com/foliowatch/foliowatch/internal/notify"
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

	logger.Info("Starting foliowatch tracker",
		zap.Duration("refresh_interval", cfg.Tracker.RefreshInterval),
		zap.Duration("alert_interval", cfg.Tracker.AlertInterval),
	)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
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
	holdingRepo := database.NewHoldingRepo(db.DB())
	snapshotRepo := database.NewSnapshotRepo(db.DB())
	alertRepo := database.NewAlertRepo(db.DB())
	feedRepo := database.NewFeedRepo(db.DB())

	// Upstream gateways
	portfolio := gateway.NewPortfolio(cfg.Portfolio, logger)
	chainLookup := gateway.NewChainLookup(cfg.ChainLookup, logger)
	device := gateway.NewDevice(cfg.Device, logger)

	// Notification channels. Unconfigured channels stay nil so the
	// dispatcher skips them.
	var pushChannel, deviceChannel, mailChannel notify.Channel
	telegram, err := notify.NewTelegramChannel(cfg.Notify, logger)
	if err != nil {
		logger.Fatal("Failed to create telegram channel", zap.Error(err))
	}
	if telegram != nil {
		pushChannel = telegram
	}
	if cfg.Device.BaseURL != "" {
		deviceChannel = notify.NewDeviceChannel(device)
	}
	if mail := notify.NewMailChannel(cfg.Notify); mail != nil {
		mailChannel = mail
	}
	dispatcher := notify.NewDispatcher(pushChannel, deviceChannel, mailChannel, logger)

	// Create background jobs
	refreshService := services.NewRefreshService(
		watchlistRepo,
		holdingRepo,
		snapshotRepo,
		feedRepo,
		portfolio,
		chainLookup,
		redisCache,
		cfg.Tracker.RefreshInterval,
		cfg.Tracker.WorkerCount,
		logger,
	)
	alertEvaluator := services.NewAlertEvaluator(
		alertRepo,
		snapshotRepo,
		dispatcher,
		cfg.Tracker.AlertInterval,
		logger,
	)

	// Start jobs
	refreshService.Start(ctx)
	alertEvaluator.Start(ctx)

	// Start metrics server
	go startMetricsServer(cfg.Tracker.MetricsPort, logger)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, stopping tracker...")

	// Graceful shutdown
	alertEvaluator.Stop()
	refreshService.Stop()

	logger.Info("Tracker stopped")
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

func startMetricsServer(port int, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", zap.String("addr", addr))

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Metrics server error", zap.Error(err))
	}
}
