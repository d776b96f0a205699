package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino-wallet-platform/config"
	kafkaBroker "casino-wallet-platform/internal/adapter/broker/kafka"
	"casino-wallet-platform/internal/adapter/gateway/pix"
	httpHandler "casino-wallet-platform/internal/adapter/http/handler"
	pgStorage "casino-wallet-platform/internal/adapter/storage/postgres"
	redisStorage "casino-wallet-platform/internal/adapter/storage/redis"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/internal/metrics"
	"casino-wallet-platform/internal/service"
	"casino-wallet-platform/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Optional .env for local development; real deployments use env vars.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Casino Wallet Platform")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	profileRepo := pgStorage.NewProfileRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	gameRepo := pgStorage.NewGameRepo(pool)
	providerRepo := pgStorage.NewProviderRepo(pool)
	settingsRepo := pgStorage.NewSettingsRepo(pool)
	adminRepo := pgStorage.NewAdminRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	sessionVerifier := service.NewHSSessionVerifier(cfg.Session.Secret)

	// Metrics + optional Kafka publisher for committed ledger events
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	var publisher ports.EventPublisher
	if cfg.Kafka.Enabled {
		kp := kafkaBroker.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher enabled")
	}

	// Gateway credentials come from the admin-configured settings row,
	// falling back to static config.
	credSource := service.NewSettingsCredentialSource(settingsRepo, encSvc, cfg.Gateway)
	pixClient := pix.NewClient(cfg.Gateway.BaseURL, credSource, &http.Client{Timeout: cfg.Gateway.Timeout}, log)

	callbackURL := cfg.Gateway.CallbackBaseURL + "/api/v1/webhooks/pix"

	// Initialize business services
	ledgerSvc := service.NewLedgerService(txRepo, publisher, m, log)
	accountSvc := service.NewAccountService(profileRepo, txRepo, log)
	depositSvc := service.NewDepositService(
		profileRepo, idempotencyRepo, idempotencyCache, ledgerSvc, pixClient, transactor,
		cfg.Wallet.MinDepositAmount(), callbackURL, m, log,
	)
	withdrawalSvc := service.NewWithdrawalService(
		profileRepo, idempotencyRepo, idempotencyCache, ledgerSvc, pixClient, transactor,
		cfg.Wallet.MinWithdrawalAmount(), cfg.Wallet.FeeRateAmount(), callbackURL, m, log,
	)
	bonusSvc := service.NewBonusService(profileRepo, ledgerSvc, transactor, cfg.Wallet.BonusAmount(), m, log)
	settlementSvc := service.NewSettlementService(profileRepo, gameRepo, ledgerSvc, transactor, m, log)
	catalogSvc := service.NewCatalogService(gameRepo, providerRepo)
	auditSvc := service.NewAuditService(auditRepo, log)
	authSvc := service.NewAuthService(adminRepo, hashSvc, tokenSvc, auditSvc, log)
	adminSvc := service.NewAdminService(
		profileRepo, txRepo, gameRepo, providerRepo, settingsRepo,
		ledgerSvc, transactor, encSvc, log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AccountSvc:      accountSvc,
		DepositSvc:      depositSvc,
		WithdrawalSvc:   withdrawalSvc,
		BonusSvc:        bonusSvc,
		SettlementSvc:   settlementSvc,
		CatalogSvc:      catalogSvc,
		AuthSvc:         authSvc,
		AdminSvc:        adminSvc,
		TokenSvc:        tokenSvc,
		SessionVerifier: sessionVerifier,
		CredSource:      credSource,
		RateLimitStore:  rateLimitStore,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:        auditSvc,
		MetricsRegistry: registry,
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
