package handler

import (
	"casino-wallet-platform/internal/adapter/http/middleware"
	redisStore "casino-wallet-platform/internal/adapter/storage/redis"
	"casino-wallet-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AccountSvc      ports.AccountService
	DepositSvc      ports.DepositService
	WithdrawalSvc   ports.WithdrawalService
	BonusSvc        ports.BonusService
	SettlementSvc   ports.SettlementService
	CatalogSvc      ports.CatalogService
	AuthSvc         ports.AuthService
	AdminSvc        ports.AdminService
	TokenSvc        ports.TokenService
	SessionVerifier ports.SessionVerifier
	CredSource      ports.CredentialSource
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	AuditSvc        ports.AuditService   // nil = audit logging disabled
	MetricsRegistry *prometheus.Registry // nil = metrics endpoint disabled
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	if deps.MetricsRegistry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	catalogHandler := NewCatalogHandler(deps.CatalogSvc)
	v1.GET("/games", catalogHandler.ListGames)
	v1.GET("/providers", catalogHandler.ListProviders)

	// --- Session-authenticated routes (players) ---
	sessionAuth := middleware.SessionAuth(deps.SessionVerifier, deps.Logger)
	walletHandler := NewWalletHandler(deps.AccountSvc, deps.BonusSvc)
	depositHandler := NewDepositHandler(deps.DepositSvc)
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)

	wallet := v1.Group("/wallet", sessionAuth)
	{
		wallet.GET("", rl("wallet_read"), walletHandler.GetWallet)
		wallet.PUT("/payout", rl("wallet_read"), walletHandler.UpdatePayout)
		wallet.GET("/transactions", rl("wallet_read"), walletHandler.ListTransactions)
		wallet.POST("/bonus", rl("bonus"), walletHandler.ClaimBonus)
		wallet.POST("/deposits", rl("deposit"), depositHandler.CreateCharge)
		wallet.GET("/withdrawal", rl("withdrawal"), withdrawalHandler.Open)
		wallet.POST("/withdrawals", rl("withdrawal"), withdrawalHandler.Request)
		wallet.POST("/withdrawal/fee", rl("withdrawal"), withdrawalHandler.CreateFeeCharge)
		wallet.DELETE("/withdrawal", rl("withdrawal"), withdrawalHandler.Cancel)
	}

	// --- Shared-token routes (gateway webhooks + game host) ---
	webhookAuth := middleware.WebhookAuth(deps.CredSource, deps.Logger)
	webhookHandler := NewWebhookHandler(deps.DepositSvc, deps.WithdrawalSvc, deps.SettlementSvc, deps.Logger)

	v1.POST("/webhooks/pix", webhookAuth, rl("callbacks"), webhookHandler.HandlePix)
	v1.POST("/callbacks/game", webhookAuth, rl("callbacks"), webhookHandler.HandleGameCallback)

	// --- JWT-authenticated routes (back office) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	v1.POST("/admin/auth/login", rl("auth_login"), authHandler.Login)

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	adminHandler := NewAdminHandler(deps.AdminSvc)

	admin := v1.Group("/admin", jwtAuth, rl("admin"))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
		admin.POST("/users/:id/block", adminHandler.SetBlocked)
		admin.POST("/users/:id/balance", adminHandler.AdjustBalance)
		admin.POST("/users/:id/withdrawal-status", adminHandler.ForceWithdrawalStatus)

		admin.GET("/transactions", adminHandler.ListTransactions)
		admin.GET("/stats", adminHandler.GetStats)

		admin.GET("/games", adminHandler.ListGames)
		admin.POST("/games", adminHandler.CreateGame)
		admin.PUT("/games/:id", adminHandler.UpdateGame)
		admin.DELETE("/games/:id", adminHandler.DeleteGame)

		admin.GET("/providers", adminHandler.ListProviders)
		admin.POST("/providers", adminHandler.CreateProvider)
		admin.PUT("/providers/:id", adminHandler.UpdateProvider)
		admin.DELETE("/providers/:id", adminHandler.DeleteProvider)

		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)
	}

	return r
}
