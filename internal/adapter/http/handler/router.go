package handler

import (
	"provider-settlement/internal/adapter/http/middleware"
	redisStore "provider-settlement/internal/adapter/storage/redis"
	"provider-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc         ports.AuthService
	WithdrawalSvc   ports.WithdrawalService
	BalanceSvc      ports.BalanceService
	SettingsSvc     ports.SettingsService
	NotificationSvc ports.NotificationService
	TokenSvc        ports.TokenService
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	AuditSvc        ports.AuditService // nil = audit logging disabled
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
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// --- Provider routes (JWT-authenticated) ---
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc, deps.BalanceSvc)
	withdrawals := v1.Group("/withdrawals", jwtAuth)
	{
		withdrawals.GET("/balance", rl("withdrawals"), withdrawalHandler.GetBalance)
		withdrawals.GET("/earnings", rl("withdrawals"), withdrawalHandler.GetEarnings)
		withdrawals.POST("", rl("withdrawals_submit"), withdrawalHandler.Submit)
		withdrawals.POST("/:id/resubmit", rl("withdrawals_submit"), withdrawalHandler.Resubmit)
		withdrawals.GET("", rl("withdrawals"), withdrawalHandler.List)
		withdrawals.GET("/:id", rl("withdrawals"), withdrawalHandler.Get)
	}

	notificationHandler := NewNotificationHandler(deps.NotificationSvc)
	notifications := v1.Group("/notifications", jwtAuth)
	{
		notifications.GET("", rl("notifications"), notificationHandler.List)
	}

	// --- Admin routes (JWT-authenticated, admin role) ---
	adminHandler := NewAdminHandler(deps.WithdrawalSvc, deps.SettingsSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.AdminOnly())
	{
		admin.GET("/withdrawals", rl("admin"), adminHandler.ListWithdrawals)
		admin.POST("/withdrawals/:id/transition", rl("admin"), adminHandler.Transition)
		admin.GET("/settings/withdrawal", rl("admin"), adminHandler.GetWithdrawalPolicy)
		admin.PUT("/settings/withdrawal", rl("admin"), adminHandler.UpdateWithdrawalPolicy)
		admin.GET("/settings/commission", rl("admin"), adminHandler.GetCommissionPolicy)
		admin.PUT("/settings/commission", rl("admin"), adminHandler.UpdateCommissionPolicy)
	}

	return r
}
