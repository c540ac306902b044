package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers the router mounts
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Webhook *handler.PaymentWebhookHandler
	System  *handler.SystemHandler
}

// Config holds everything the router needs besides the handlers
type Config struct {
	Handlers       Handlers
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger

	// AuthRateLimit limits login and registration attempts per client IP.
	// Nil disables rate limiting.
	AuthRateLimit *middleware.RateLimiter
}

// Setup mounts all routes on the engine under /api/v1. The webhook and
// health routes stay outside JWT auth; the gateway authenticates through
// its signature header and probes send no credentials at all.
func Setup(engine *gin.Engine, cfg Config) {
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		Logger:         cfg.Logger,
	})

	engine.GET("/health", cfg.Handlers.System.Health)
	engine.GET("/healthz", cfg.Handlers.System.Health)

	api := engine.Group("/api/v1")

	api.GET("/health", cfg.Handlers.System.Health)
	api.GET("/system/info", cfg.Handlers.System.GetSystemInfo)

	authGroup := api.Group("/auth")
	if cfg.AuthRateLimit != nil {
		authGroup.Use(middleware.RateLimit(cfg.AuthRateLimit))
	}
	authGroup.POST("/register", cfg.Handlers.Auth.Register)
	authGroup.POST("/login", cfg.Handlers.Auth.Login)
	authGroup.POST("/google", cfg.Handlers.Auth.GoogleLogin)
	authGroup.POST("/refresh", cfg.Handlers.Auth.Refresh)

	session := api.Group("/auth", jwtAuth)
	session.POST("/logout", cfg.Handlers.Auth.Logout)
	session.GET("/me", cfg.Handlers.Auth.Me)

	products := api.Group("/products")
	products.GET("", cfg.Handlers.Product.List)
	products.GET("/:id", cfg.Handlers.Product.Get)

	productAdmin := api.Group("/products", jwtAuth, middleware.RequireAdmin())
	productAdmin.POST("", cfg.Handlers.Product.Create)
	productAdmin.PUT("/:id", cfg.Handlers.Product.Update)
	productAdmin.DELETE("/:id", cfg.Handlers.Product.Delete)

	cart := api.Group("/cart", jwtAuth)
	cart.GET("", cfg.Handlers.Cart.Get)
	cart.POST("/items", cfg.Handlers.Cart.AddItem)
	cart.PUT("/items/:productId", cfg.Handlers.Cart.UpdateItem)
	cart.DELETE("/items/:productId", cfg.Handlers.Cart.RemoveItem)

	orders := api.Group("/orders", jwtAuth)
	orders.POST("/checkout", cfg.Handlers.Order.Checkout)
	orders.GET("", cfg.Handlers.Order.List)
	orders.GET("/:id", cfg.Handlers.Order.Get)
	orders.POST("/:id/cancel", cfg.Handlers.Order.Cancel)
	orders.POST("/:id/ship", middleware.RequireAdmin(), cfg.Handlers.Order.Ship)

	api.POST("/webhooks/payment", cfg.Handlers.Webhook.HandlePaymentWebhook)
}

// DefaultAuthRateLimiter returns the limiter applied to credential routes
func DefaultAuthRateLimiter(requests int, window time.Duration) *middleware.RateLimiter {
	if requests <= 0 {
		requests = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return middleware.NewRateLimiter(requests, window)
}
