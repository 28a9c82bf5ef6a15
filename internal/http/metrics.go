package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

type httpMetrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func newHTTPMetrics() *httpMetrics {
	m := &httpMetrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskdeck",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskdeck",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
	}

	collectors := []prometheus.Collector{m.requestTotal, m.requestLatency}
	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch v := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					m.requestTotal = v
				case *prometheus.HistogramVec:
					m.requestLatency = v
				}
			}
		}
	}
	return m
}

// middleware registra contador y latencia por método/ruta/status.
func (m *httpMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		m.requestTotal.With(labels).Inc()
		m.requestLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}
