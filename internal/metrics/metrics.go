// Package metrics registers the service's Prometheus collectors and exposes them over HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts finished requests by method, matched route and status.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// RequestDuration observes request latency by method and matched route.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SearchTotalResults observes the match count of each organization search, before paging.
	SearchTotalResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_search_total_results",
		Help:    "Matches per organization search before pagination",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})

	// ActivityExpansionSize observes how many activity ids one expansion yields, root included.
	ActivityExpansionSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_activity_expansion_size",
		Help:    "Activity ids produced per descendant expansion",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})

	// RateLimitedTotal counts requests answered with 429.
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		SearchTotalResults,
		ActivityExpansionSize,
		RateLimitedTotal,
	)
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
