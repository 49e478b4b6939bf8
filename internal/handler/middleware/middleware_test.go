//go:build unit

package middleware_test

import (
	"net/http"
	"strings"
	"testing"

	"venue-booking-gateway/internal/handler/httperr"
	"venue-booking-gateway/internal/handler/middleware"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/reqid"
	"venue-booking-gateway/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeSession struct{ authenticated bool }

func (f fakeSession) Authenticated() bool { return f.authenticated }

func newEngine(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	logger := middleware.NewLogger(config.NewTestConfig().Log)
	engine.Use(middleware.CustomRecovery(), logger.LoggingMiddleware(), middleware.ErrorHandler())

	auth := middleware.NewAuthMiddleware(fakeSession{authenticated: authenticated})
	engine.GET("/guarded", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"request_id": middleware.GetRequestID(c),
			"ctx_id":     reqid.From(c.Request.Context()),
		})
	})
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	return engine
}

func TestRequireAuth(t *testing.T) {
	t.Run("passes through with a held credential", func(t *testing.T) {
		rec := httptest.PerformRequest(t, newEngine(true), http.MethodGet, "/guarded", nil, "")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.NotEmpty(t, body["request_id"])
		assert.Equal(t, body["request_id"], rec.Header().Get("X-Request-ID"))
		assert.Equal(t, body["request_id"], body["ctx_id"])
	})

	t.Run("keeps a well-formed inbound request id", func(t *testing.T) {
		rec := httptest.Do(t, newEngine(true), httptest.Request{
			Method:  http.MethodGet,
			Path:    "/guarded",
			Headers: map[string]string{"X-Request-ID": "edge-123"},
		})

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		httptest.AssertHeaders(t, rec, map[string]string{"X-Request-ID": "edge-123"})
		assert.Equal(t, "edge-123", body["ctx_id"])
	})

	t.Run("replaces a malformed inbound request id", func(t *testing.T) {
		rec := httptest.Do(t, newEngine(true), httptest.Request{
			Method:  http.MethodGet,
			Path:    "/guarded",
			Headers: map[string]string{"X-Request-ID": "bad id!"},
		})

		assert.NotEqual(t, "bad id!", rec.Header().Get("X-Request-ID"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("rejects without a credential", func(t *testing.T) {
		rec := httptest.PerformRequest(t, newEngine(false), http.MethodGet, "/guarded", nil, "")

		httptest.AssertErrorCode(t, rec, http.StatusUnauthorized, httperr.CodeNotAuthenticated, "log in")
	})
}

func TestCustomRecovery(t *testing.T) {
	rec := httptest.PerformRequest(t, newEngine(true), http.MethodGet, "/panic", nil, "")

	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestCORSAllowsRequestIDHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
	}
	engine := gin.New()
	engine.Use(middleware.NewCORSMiddleware(cfg))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.Do(t, engine, httptest.Request{
		Method: http.MethodOptions,
		Path:   "/ping",
		Headers: map[string]string{
			"Origin":                         "http://localhost:3000",
			"Access-Control-Request-Method":  "GET",
			"Access-Control-Request-Headers": "X-Request-ID",
		},
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "x-request-id")
	assert.Equal(t, []string{"Content-Type"}, cfg.AllowHeaders)
}
