package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/cache"
	"bilancio/internal/config"
	apphttp "bilancio/internal/http"
	"bilancio/internal/log"
	"bilancio/internal/provider"
	"bilancio/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage backend and the in-memory balance sheet built from it.
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

	budgetFile, err := config.LoadBudgetFile(cfg.BudgetFile)
	if err != nil {
		logger.Error("Failed to load budget file", "error", err, "path", cfg.BudgetFile)
		os.Exit(1)
	}

	// Provider snapshot source; an empty in-memory one keeps the budget
	// template endpoint serving (empty reports) without a provider.
	var snapshot provider.SnapshotReader
	if cfg.HasProvider() {
		snapshot = provider.NewClient(provider.ClientConfig{
			APIURL:      cfg.ProviderAPIURL,
			AccessToken: cfg.ProviderToken,
			BudgetID:    cfg.ProviderBudgetID,
			Timeout:     cfg.ProviderTimeout,
		})
		logger.Info("Provider client initialized", "api_url", cfg.ProviderAPIURL)
	} else {
		snapshot = provider.NewMemory()
		logger.Info("No provider configured, budget templates will be empty")
	}

	// AMQP recompute publishing is optional.
	var publisher services.RecomputePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, recompute notifications will not be published")
	}

	ledgerSvc := services.NewLedgerService(sheet, result.Repository, publisher)
	reports := services.NewReportService(snapshot, budgetFile.Budgeters, budgetFile.Classes)

	cacheMgr := cache.NewManager()
	cacheMgr.Register(reports.Cache())
	cacheMgr.StartCleanup(10 * time.Minute)
	defer cacheMgr.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, reports)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting bilancio server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
