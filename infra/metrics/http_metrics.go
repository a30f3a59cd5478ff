package metrics

import (
	"construxflow/misc"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// LedgerRejections counts decisions refused for lack of vacancies or stock
	LedgerRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_insufficient_capacity_total",
			Help: "Total number of approvals refused by a ledger",
		},
		[]string{"service", "ledger"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDurationHistogram, LedgerRejections)
}

// HTTPMetrics records count and duration of every request, labelled by route template
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestCounter.WithLabelValues(misc.ServiceName(), c.Request.Method, path, status).Inc()
		RequestDurationHistogram.WithLabelValues(misc.ServiceName(), c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

func RecordLedgerRejection(ledger string) {
	LedgerRejections.WithLabelValues(misc.ServiceName(), ledger).Inc()
}

func RegisterMetricsEndpoint(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
