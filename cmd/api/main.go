package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/digital-banking/account-service/internal/api"
	"github.com/digital-banking/account-service/internal/api/service"
	"github.com/digital-banking/account-service/internal/config"
	"github.com/digital-banking/account-service/internal/data/mongo"
	"github.com/digital-banking/account-service/internal/data/postgres"
	"github.com/digital-banking/account-service/internal/engine"
	"github.com/digital-banking/account-service/internal/logger"
	"github.com/digital-banking/account-service/internal/platform/messaging/events"
	"github.com/digital-banking/account-service/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize the operation event publisher when enabled
	var publisher *events.OperationPublisher
	if cfg.Kafka.Enabled {
		publisher, err = events.NewOperationPublisher(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize operation event publisher", "error", err)
			os.Exit(1)
		}
	}

	// Initialize repositories
	customerRepo := postgres.NewCustomerRepository(log, postgresDB)
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	ledgerRepo := mongo.NewOperationRepository(log, mongoDB.Database())

	// Initialize the operation engine and account factory
	var enginePublisher engine.OperationPublisher
	if publisher != nil {
		enginePublisher = publisher
	}
	operationEngine := engine.NewEngine(log, accountRepo, ledgerRepo, enginePublisher, cfg.Banking.LockTimeout)
	accountFactory := engine.NewFactory(log, accountRepo, customerRepo, cfg.Banking.DefaultCurrency)

	// Initialize services
	customerService := service.NewCustomerService(customerRepo)
	accountService := service.NewAccountService(accountFactory, accountRepo)

	// Initialize REST server
	server := api.NewServer(log, cfg, customerService, accountService, operationEngine)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if publisher != nil {
		if err = publisher.Close(); err != nil {
			log.Error("Error closing operation event publisher", "error", err)
		}
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
