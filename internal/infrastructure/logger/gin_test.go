package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveLogged(t *testing.T, method, target string, register func(*gin.Engine)) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func findRequestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP request" {
			return entry
		}
	}
	t.Fatal("no HTTP request log entry recorded")
	return observer.LoggedEntry{}
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	w, recorded := serveLogged(t, http.MethodGet, "/api/v1/products", func(r *gin.Engine) {
		r.GET("/api/v1/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"items": []string{}})
		})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := make(map[string]zap.Field)
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
		assert.Contains(t, fields, key)
	}
}

func TestGinMiddleware_StatusDrivesLevel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs info", http.StatusOK, zapcore.InfoLevel},
		{"4xx logs warn", http.StatusNotFound, zapcore.WarnLevel},
		{"5xx logs error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, recorded := serveLogged(t, http.MethodGet, "/ping", func(r *gin.Engine) {
				r.GET("/ping", func(c *gin.Context) {
					c.Status(tt.status)
				})
			})
			assert.Equal(t, tt.level, findRequestLog(t, recorded).Level)
		})
	}
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-abc")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	entry := findRequestLog(t, recorded)
	var requestID string
	for _, f := range entry.Context {
		if f.Key == "request_id" {
			requestID = f.String
		}
	}
	assert.Equal(t, "req-abc", requestID)
}

func TestGinMiddleware_QueryString(t *testing.T) {
	_, recorded := serveLogged(t, http.MethodGet, "/api/v1/products?page=2&page_size=10", func(r *gin.Engine) {
		r.GET("/api/v1/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	entry := findRequestLog(t, recorded)
	var query string
	for _, f := range entry.Context {
		if f.Key == "query" {
			query = f.String
		}
	}
	assert.Contains(t, query, "page=2")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("unexpected state")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	var got *zap.Logger

	_, _ = serveLogged(t, http.MethodGet, "/ping", func(r *gin.Engine) {
		r.GET("/ping", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})
	})

	assert.NotNil(t, got)
}

func TestGetGinLogger_MiddlewareAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got *zap.Logger
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotNil(t, got)
	assert.NotPanics(t, func() { got.Info("noop") })
}
