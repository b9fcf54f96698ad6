package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	c := New("opportunity-radar")

	c.ObserveSearch("ok", 3)
	c.ObserveSearch("error", 0)
	c.ObservePrioritization("heuristic")
	c.ObserveFallback("status")
	c.ObserveTicketOp("create")
	c.ObserveTicketOp("create")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.searchesTotal.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.eventsIngestedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.prioritizations.WithLabelValues("heuristic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbacksTotal.WithLabelValues("status")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticketOpsTotal.WithLabelValues("create")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveSearch("ok", 1)
		c.ObservePrioritization("gemini")
		c.ObserveFallback("transport")
		c.ObserveTicketOp("delete")
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New("radar")

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(c.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "radar_http_requests_total"))
}
