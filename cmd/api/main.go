// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/redis"
	"github.com/your-org/productlist-backend/internal/interfaces/http"
	"github.com/your-org/productlist-backend/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	appLogger.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", cfg.App.Name)

	// Connect to database
	db, err := postgres.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Health(healthCtx); err != nil {
		appLogger.WithError(err).Fatal("Database health check failed")
	}
	if err := redisClient.Health(healthCtx); err != nil {
		appLogger.WithError(err).Fatal("Redis health check failed")
	}
	cancelHealth()

	if cfg.Database.AutoMigrate {
		migrate(cfg, db, appLogger)
	}

	// Create and start HTTP server
	server := http.NewServer(cfg, db, redisClient, appLogger)

	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("Server shutdown completed")
}

// migrate brings the schema up to date and seeds development data
func migrate(cfg *config.Config, db *postgres.DB, appLogger *logrus.Logger) {
	migration := postgres.NewMigration(db.GetDB(), appLogger)

	if err := migration.RunAutoMigrations(); err != nil {
		appLogger.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		appLogger.WithError(err).Warn("Index creation failed")
	}

	if !cfg.IsDevelopment() {
		return
	}
	if err := migration.SeedInitialData(context.Background()); err != nil {
		appLogger.WithError(err).Warn("Data seeding failed")
	}
	tables, err := migration.GetTableInfo()
	if err != nil {
		appLogger.WithError(err).Warn("Failed to read table info")
		return
	}
	for _, t := range tables {
		appLogger.WithFields(logrus.Fields{"table": t.Name, "records": t.Records}).Debug("table ready")
	}
}
