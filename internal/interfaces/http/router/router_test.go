package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-longer-than-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
	})

	engine := gin.New()
	Setup(engine, Config{
		Handlers: Handlers{
			Auth:    handler.NewAuthHandler(nil),
			Product: handler.NewProductHandler(nil),
			Cart:    handler.NewCartHandler(nil),
			Order:   handler.NewOrderHandler(nil, nil),
			Webhook: handler.NewPaymentWebhookHandler(nil),
			System:  handler.NewSystemHandler(nil),
		},
		JWTService:     jwtService,
		TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
		Logger:         zap.NewNop(),
	})
	return engine, jwtService
}

func routeSet(engine *gin.Engine) map[string]bool {
	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestSetup_RegistersAllRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)
	routes := routeSet(engine)

	expected := []string{
		"GET /health",
		"GET /api/v1/health",
		"GET /api/v1/system/info",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/google",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"POST /api/v1/products",
		"PUT /api/v1/products/:id",
		"DELETE /api/v1/products/:id",
		"GET /api/v1/cart",
		"POST /api/v1/cart/items",
		"PUT /api/v1/cart/items/:productId",
		"DELETE /api/v1/cart/items/:productId",
		"POST /api/v1/orders/checkout",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"POST /api/v1/orders/:id/cancel",
		"POST /api/v1/orders/:id/ship",
		"POST /api/v1/webhooks/payment",
	}
	for _, route := range expected {
		assert.True(t, routes[route], "missing route %s", route)
	}
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	engine, _ := newTestEngine(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/orders/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/products"},
	}
	for _, tc := range protected {
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require auth", tc.method, tc.path)
	}
}

func TestSetup_AdminRoutesRejectCustomers(t *testing.T) {
	engine, jwtService := newTestEngine(t)

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "shopper@example.com",
		Role:   string(identity.RoleCustomer),
	})
	require.NoError(t, err)

	adminOnly := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/products"},
		{http.MethodPut, "/api/v1/products/123"},
		{http.MethodDelete, "/api/v1/products/123"},
		{http.MethodPost, "/api/v1/orders/123/ship"},
	}
	for _, tc := range adminOnly {
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s should be admin only", tc.method, tc.path)
	}
}

func TestSetup_HealthIsPublic(t *testing.T) {
	engine, _ := newTestEngine(t)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
