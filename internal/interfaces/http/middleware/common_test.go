package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouterWith(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doGet(router *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_DefaultDeniesCrossOrigin(t *testing.T) {
	router := newRouterWith(CORS())

	// Default config has an empty whitelist, so cross-origin requests
	// get no CORS headers at all.
	w := doGet(router, "http://somewhere-else.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// Same-origin (no Origin header) passes through untouched.
	w = doGet(router, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Preflight still terminates with 204, just without CORS headers.
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://somewhere-else.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSWithConfig_OriginWhitelist(t *testing.T) {
	router := newRouterWith(CORSWithConfig(CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "https://shop.example.com"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	w := doGet(router, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = doGet(router, "https://shop.example.com")
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = doGet(router, "http://not-allowed.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithConfig_WildcardDropsCredentials(t *testing.T) {
	router := newRouterWith(CORSWithConfig(CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	w := doGet(router, "http://any-origin.example")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	// Browsers reject credentials combined with a wildcard origin, so the
	// header must stay unset even when configured.
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWithConfig_MaxAgeInSeconds(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{time.Hour, "3600"},
		{12 * time.Hour, "43200"},
		{30 * time.Second, "30"},
	}

	for _, tt := range tests {
		router := newRouterWith(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       tt.duration,
		}))

		w := doGet(router, "http://localhost:3000")
		assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORSWithConfig_ExposeHeaders(t *testing.T) {
	router := newRouterWith(CORSWithConfig(CORSConfig{
		AllowOrigins:  []string{"http://localhost:3000"},
		AllowMethods:  []string{"GET"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
	}))

	w := doGet(router, "http://localhost:3000")
	assert.Equal(t, "X-Request-ID, X-RateLimit-Remaining", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSWithConfig_Preflight(t *testing.T) {
	router := newRouterWith(CORSWithConfig(CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET", "POST", "PUT"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "GET")
	assert.Contains(t, cfg.AllowMethods, "POST")
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
}

func TestRequestID_PropagatesClientValue(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "client-supplied-id", w.Body.String())
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	assert.Len(t, id1, 32)
	assert.NotEqual(t, id1, id2)
}

func TestSecure_Defaults(t *testing.T) {
	w := doGet(newRouterWith(Secure()), "")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")

	// HSTS stays off until TLS termination is confirmed
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	permPolicy := w.Header().Get("Permissions-Policy")
	assert.Contains(t, permPolicy, "camera=()")
	assert.Contains(t, permPolicy, "microphone=()")
}

func TestSecureWithConfig_HSTS(t *testing.T) {
	tests := []struct {
		name     string
		cfg      SecurityConfig
		expected string
	}{
		{
			name: "all flags",
			cfg: SecurityConfig{
				HSTSEnabled:           true,
				HSTSMaxAge:            63072000,
				HSTSIncludeSubdomains: true,
				HSTSPreload:           true,
			},
			expected: "max-age=63072000; includeSubDomains; preload",
		},
		{
			name: "max-age only",
			cfg: SecurityConfig{
				HSTSEnabled: true,
				HSTSMaxAge:  31536000,
			},
			expected: "max-age=31536000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(newRouterWith(SecureWithConfig(tt.cfg)), "")
			assert.Equal(t, tt.expected, w.Header().Get("Strict-Transport-Security"))
		})
	}
}

func TestSecureWithConfig_CustomDirectives(t *testing.T) {
	w := doGet(newRouterWith(SecureWithConfig(SecurityConfig{
		CSPEnabled:                 true,
		CSPDirective:               "default-src 'none'; script-src 'self'",
		PermissionsPolicyEnabled:   true,
		PermissionsPolicyDirective: "geolocation=(self), microphone=()",
	})), "")

	assert.Equal(t, "default-src 'none'; script-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "geolocation=(self), microphone=()", w.Header().Get("Permissions-Policy"))
}

func TestSecureWithConfig_AllOptionalHeadersOff(t *testing.T) {
	w := doGet(newRouterWith(SecureWithConfig(SecurityConfig{})), "")

	// Baseline headers are unconditional
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Permissions-Policy"))
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.HSTSIncludeSubdomains)

	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "default-src 'self'")
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")

	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "camera=()")
}

func TestTimeout_SetsHeader(t *testing.T) {
	w := doGet(newRouterWith(Timeout(30*time.Second)), "")
	assert.Equal(t, "30s", w.Header().Get("X-Request-Timeout"))
}
