package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/app"
	"github.com/pageza/alchemorsel-genai/backend/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.Init(logger.Options{
		Level: cfg.LogLevel,
		Path:  cfg.LogPath,
		JSON:  cfg.Environment.StructuredLogs(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting recipe server",
			zap.String("addr", cfg.Addr()),
			zap.String("environment", string(cfg.Environment)),
			zap.Bool("genai_initialized", application.Service != nil),
		)
		errChan <- application.Server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := application.Server.Stop(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := application.Close(); err != nil {
		logger.Error("failed to release resources", zap.Error(err))
	}
	logger.Info("server stopped")
}
