package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	paymentUseCase "github.com/slikapay/payment-engine/internal/domain/usecase/payment"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/api/handler"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/api/routes"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/database"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/gateway"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/logger"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/merchant"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/qr"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/repository"
	timeProvider "github.com/slikapay/payment-engine/internal/infrastructure/adapter/time"
	"github.com/slikapay/payment-engine/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Database
	dbManager := database.NewManager(cfg.Database.ToAdapterConfig(), appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	txnRepo := repository.NewTransactionRepository(dbManager.DB(), tp, appLogger)

	// Gateway client
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:        cfg.Gateway.BaseURL,
		APIKey:         cfg.Gateway.APIKey,
		Secret:         cfg.Gateway.Secret,
		OrderPrefix:    cfg.Gateway.OrderPrefix,
		RetryAttempts:  cfg.Gateway.RetryAttempts,
		RetryBaseDelay: cfg.Gateway.RetryBaseDelay,
		RatePause:      cfg.Gateway.RatePause,
		CreateTimeout:  cfg.Gateway.CreateTimeout,
		StatusTimeout:  cfg.Gateway.StatusTimeout,
		RefundTimeout:  cfg.Gateway.RefundTimeout,
		HealthTimeout:  cfg.Gateway.HealthTimeout,
	}, tp, appLogger)

	// Merchant profiles
	var defaultProfile *entity.MerchantProfile
	if cfg.Merchants.Default != nil {
		profile := cfg.Merchants.Default.ToEntity()
		defaultProfile = &profile
	}
	profiles := make(map[string]entity.MerchantProfile, len(cfg.Merchants.Profiles))
	for ownerID, profileCfg := range cfg.Merchants.Profiles {
		profiles[ownerID] = profileCfg.ToEntity()
	}
	merchants := merchant.NewConfigProvider(defaultProfile, profiles, appLogger)

	// Reconciliation engine
	payments := paymentUseCase.NewService(
		gatewayClient,
		txnRepo,
		merchants,
		qr.NewGenerator(),
		tp,
		appLogger,
		paymentUseCase.Config{
			MaxAmountMinor:      cfg.Payment.MaxAmountMinor,
			HistoryDefaultLimit: cfg.Payment.HistoryDefaultLimit,
			HistoryMaxLimit:     cfg.Payment.HistoryMaxLimit,
			QRSize:              cfg.Payment.QRSize,
		},
	)

	// HTTP layer
	paymentHandler := handler.NewPaymentHandler(payments, appLogger)
	webhookHandler := handler.NewWebhookHandler(payments, appLogger)
	healthHandler := handler.NewHealthHandler(dbManager.DB(), gatewayClient)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, paymentHandler, webhookHandler, healthHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if cfg.Database.Username == "" {
		missing = append(missing, "database.username")
	}
	if cfg.Database.Password == "" {
		missing = append(missing, "database.password")
	}
	if cfg.Database.Database == "" {
		missing = append(missing, "database.database")
	}
	if cfg.Gateway.BaseURL == "" {
		missing = append(missing, "gateway.baseUrl")
	}
	if cfg.Gateway.APIKey == "" {
		missing = append(missing, "gateway.apiKey")
	}
	if cfg.Gateway.Secret == "" {
		missing = append(missing, "gateway.secret")
	}
	if cfg.Merchants.Default == nil && len(cfg.Merchants.Profiles) == 0 {
		missing = append(missing, "merchants.default or merchants.profiles")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
