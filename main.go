package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/metrics"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/routes"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.EnvFile != "" {
		logger.Info("Loaded configuration", zap.String("file", cfg.EnvFile))
	} else {
		logger.Info("No .env file found, using system environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

// run wires the application and serves until ctx is cancelled
func run(ctx context.Context, cfg *config.Config) error {
	logger := zap.L()
	logger.Info("Starting Bigfoot API server...", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		return err
	}
	if err := models.Migrate(config.GetDB()); err != nil {
		return err
	}
	logger.Info("Database migration completed successfully")

	if err := metrics.SyncOnlineUsers(config.GetDB()); err != nil {
		logger.Warn("Failed to load online user count", zap.Error(err))
	}

	tokens, err := services.NewTokenService(services.TokenConfig{Secret: cfg.TokenSecret})
	if err != nil {
		return err
	}

	if _, err := services.InitPhotoStorage(ctx, cfg); err != nil {
		return err
	}
	logger.Info("Photo storage initialized", zap.String("type", cfg.StorageType))

	notifier, err := services.InitNotifier(cfg)
	if err != nil {
		// quotes are still accepted without notifications
		logger.Warn("Quote notifications unavailable", zap.Error(err))
		notifier = services.GetNotifier()
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("Failed to close notifier", zap.Error(err))
		}
	}()

	server := newHTTPServer(cfg, routes.Setup(cfg, tokens))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server is running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
