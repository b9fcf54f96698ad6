package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-radar/logging"
	"opportunity-radar/metrics"
)

func TestSetupRouterHealthAndMetrics(t *testing.T) {
	m := metrics.New("server_test")
	router, err := SetupRouter(logging.NewDiscard(), m, gin.TestMode)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"opportunity-radar"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `server_test_http_requests_total{endpoint="/health",method="GET",status="200"} 1`)
}

func TestSetupRouterWithoutMetrics(t *testing.T) {
	router, err := SetupRouter(logging.NewDiscard(), nil, gin.TestMode)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig("0")
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Start(ctx, cfg, http.NotFoundHandler(), logging.NewDiscard())
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
