package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/logger"
)

func testRouter(cfg *config.Config) http.Handler {
	log := logger.New(cfg)
	return NewRouter(Handlers{}, cfg, log)
}

func testConfig() *config.Config {
	return &config.Config{Env: "test", LogLevel: "error", LogFormat: "json"}
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "investcore-api")
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// Upstream-provided ids pass through untouched.
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "proxy-id-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "proxy-id-1", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	router := testRouter(testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}
	router := testRouter(cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
