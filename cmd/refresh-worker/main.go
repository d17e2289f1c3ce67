package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/config"
	"bilancio/internal/log"
	"bilancio/internal/provider"
	"bilancio/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentRefresh)
	log.SetDefault(logger)

	logger.Info("Starting refresh-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.HasProvider() {
		logger.Error("PROVIDER_API_URL is required for the refresh worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	sheet, err := result.Repository.LoadBalanceSheet(ctx)
	if err != nil {
		logger.Error("Failed to load balance sheet", "error", err)
		os.Exit(1)
	}
	logger.Info("Balance sheet loaded", "resources", len(sheet.Resources()))

	snapshot := provider.NewClient(provider.ClientConfig{
		APIURL:      cfg.ProviderAPIURL,
		AccessToken: cfg.ProviderToken,
		BudgetID:    cfg.ProviderBudgetID,
		Timeout:     cfg.ProviderTimeout,
	})

	var publisher services.RecomputePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled, recompute notifications will not be published")
	}

	ledgerSvc := services.NewLedgerService(sheet, result.Repository, publisher)
	processor := services.NewRefreshProcessor(snapshot, ledgerSvc, nil, services.RefreshProcessorConfig{
		Interval: cfg.RefreshInterval,
	})

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start refresh processor", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := processor.Stop(shutdownCtx); err != nil {
		logger.Error("Refresh processor stop failed", "error", err)
	}
	logger.Info("Refresh worker stopped gracefully")
}
