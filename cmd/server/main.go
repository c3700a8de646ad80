package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	"github.com/pmotterani/flexipay/internal/domain/fee"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/domain/usecase/ledger"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/handler"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/routes"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/cache"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/database"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/database/migration"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/logger"
	timeProvider "github.com/pmotterani/flexipay/internal/infrastructure/adapter/time"
	"github.com/pmotterani/flexipay/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Database.LogLevel,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	conn, err := database.NewConnection(dbConfig, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	// Run migrations
	migrationMgr := migration.NewManager(conn.DB, appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Unit of work over the ledger store
	uow := database.NewUnitOfWork(conn.DB, appLogger, tp, cfg.Ledger.LockTimeout())

	// Fee schedule
	feeCalculator, err := fee.NewCalculator(fee.Rates{
		DepositRate:     cfg.Fees.DepositRate,
		WithdrawalRate:  cfg.Fees.WithdrawalRate,
		WithdrawalFixed: cfg.Fees.WithdrawalFixed,
	})
	if err != nil {
		appLogger.Error("Invalid fee schedule", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	limits, err := depositLimits(cfg)
	if err != nil {
		appLogger.Error("Invalid deposit limits", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Ledger service
	ledgerService := ledger.NewService(uow, feeCalculator, limits, tp, appLogger)

	// Webhook deduplication cache; the service runs without it when
	// redis is disabled or unreachable
	guard := webhookGuard(cfg, appLogger)

	// Initialize API handlers
	walletHandler := handler.NewWalletHandler(ledgerService, appLogger)
	webhookHandler := handler.NewWebhookHandler(ledgerService, guard, appLogger)
	adminHandler := handler.NewAdminHandler(ledgerService, appLogger)
	authHandler := handler.NewAuthHandler(cfg.Admin.Secret, cfg.Admin.IDs, cfg.Admin.TokenTTL, tp, appLogger)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, walletHandler, webhookHandler, adminHandler, authHandler, routes.AdminGuard{
		Secret:     cfg.Admin.Secret,
		AllowedIDs: cfg.Admin.IDs,
	}, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited", nil)
}

// depositLimits parses the configured deposit bounds
func depositLimits(cfg *config.Config) (ledger.DepositLimits, error) {
	minDeposit, err := entity.ParseAmount(cfg.Fees.MinDeposit)
	if err != nil {
		return ledger.DepositLimits{}, fmt.Errorf("invalid minimum deposit: %w", err)
	}
	maxDeposit, err := entity.ParseAmount(cfg.Fees.MaxDeposit)
	if err != nil {
		return ledger.DepositLimits{}, fmt.Errorf("invalid maximum deposit: %w", err)
	}
	return ledger.DepositLimits{Min: minDeposit, Max: maxDeposit}, nil
}

// webhookGuard connects the redis-backed deduplication guard, degrading
// to a pass-through when redis is disabled or unreachable
func webhookGuard(cfg *config.Config, appLogger coreport.Logger) *cache.RedisIdempotencyGuard {
	if !cfg.Redis.Enabled {
		return cache.NewRedisIdempotencyGuard(nil, cfg.Redis.ClaimTTL, appLogger)
	}

	client, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Warn("Redis unavailable, webhook deduplication disabled", map[string]any{
			"addr":  cfg.Redis.Addr,
			"error": err.Error(),
		})
		return cache.NewRedisIdempotencyGuard(nil, cfg.Redis.ClaimTTL, appLogger)
	}

	appLogger.Info("Connected to redis", map[string]any{
		"addr": cfg.Redis.Addr,
	})
	return cache.NewRedisIdempotencyGuard(client, cfg.Redis.ClaimTTL, appLogger)
}
