package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service metrics. Each collector has its own registry
// so several can coexist in one test binary. All methods accept a nil
// receiver and do nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	searchesTotal       *prometheus.CounterVec
	eventsIngestedTotal prometheus.Counter
	prioritizations     *prometheus.CounterVec
	fallbacksTotal      *prometheus.CounterVec
	ticketOpsTotal      *prometheus.CounterVec
}

func New(serviceName string) *Collector {
	ns := strings.ReplaceAll(serviceName, "-", "_")

	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    ns + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	c.searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_news_searches_total",
			Help: "News webhook searches by outcome",
		},
		[]string{"outcome"},
	)
	c.eventsIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: ns + "_events_ingested_total",
			Help: "Global events produced by ingestion",
		},
	)
	c.prioritizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_prioritizations_total",
			Help: "Prioritization results by strategy",
		},
		[]string{"source"},
	)
	c.fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_prioritization_fallbacks_total",
			Help: "Fallbacks from the remote to the heuristic strategy",
		},
		[]string{"reason"},
	)
	c.ticketOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_ticket_operations_total",
			Help: "Ticket store mutations by operation",
		},
		[]string{"op"},
	)

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.searchesTotal,
		c.eventsIngestedTotal,
		c.prioritizations,
		c.fallbacksTotal,
		c.ticketOpsTotal,
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil {
			ctx.Next()
			return
		}
		start := time.Now()
		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, endpoint, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) ObserveSearch(outcome string, events int) {
	if c == nil {
		return
	}
	c.searchesTotal.WithLabelValues(outcome).Inc()
	c.eventsIngestedTotal.Add(float64(events))
}

func (c *Collector) ObservePrioritization(source string) {
	if c == nil {
		return
	}
	c.prioritizations.WithLabelValues(source).Inc()
}

func (c *Collector) ObserveFallback(reason string) {
	if c == nil {
		return
	}
	c.fallbacksTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveTicketOp(op string) {
	if c == nil {
		return
	}
	c.ticketOpsTotal.WithLabelValues(op).Inc()
}
