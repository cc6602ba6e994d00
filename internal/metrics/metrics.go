package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	DraftSaves = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "careers_draft_saves_total",
		Help: "Draft saves accepted",
	})

	DraftConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_draft_conflicts_total",
			Help: "Stale drafts rejected by the version check",
		},
		[]string{"operation"},
	)

	// Publishes is labelled by the stage a publish ended in
	Publishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_publishes_total",
			Help: "Publish attempts by final stage",
		},
		[]string{"stage"},
	)

	Heartbeats = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "careers_editor_heartbeats_total",
		Help: "Editor presence heartbeats received",
	})
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			DraftSaves,
			DraftConflicts,
			Publishes,
			Heartbeats,
		)
	})
}

// HTTPMetrics records request metrics for one service
type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	Register()
	return &HTTPMetrics{ServiceName: serviceName}
}

// Middleware records request count and latency, labelled by route template
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		RequestCounter.WithLabelValues(m.ServiceName, method, path, status).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
