// Command migrate creates or updates the generation history schema.
package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/database"
	"github.com/pageza/alchemorsel-genai/backend/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DBDriver == config.DriverNone {
		log.Fatal("DB_DRIVER is none; nothing to migrate")
	}

	zl, err := logger.Init(logger.Options{Level: cfg.LogLevel, JSON: cfg.Environment.StructuredLogs()})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, zl)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations applied", zap.String("driver", cfg.DBDriver))
}
