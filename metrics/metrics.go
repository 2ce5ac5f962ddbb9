// Package metrics defines Prometheus metrics for the Bigfoot API.
//
// Metrics live in a dedicated registry served on GET /metrics, so tests can
// build routers repeatedly without duplicate registration panics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// Registry holds every bigfoot metric plus the Go and process collectors.
	Registry = prometheus.NewRegistry()

	// HTTPRequestsTotal counts handled requests by method, route template and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bigfoot_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds is a histogram of request latency by route.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bigfoot_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LoginsTotal counts login attempts by account kind (user, employee) and outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bigfoot_logins_total",
			Help: "Total login attempts by account kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// QuotesSubmittedTotal counts created quotes by owner kind (user, guest).
	QuotesSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bigfoot_quotes_submitted_total",
			Help: "Total quote requests submitted by owner kind.",
		},
		[]string{"owner"},
	)

	// OnlineUsers mirrors the count of users flagged online in the database.
	// It is only ever set from SyncOnlineUsers.
	OnlineUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bigfoot_online_users",
			Help: "Number of users currently flagged online.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		LoginsTotal,
		QuotesSubmittedTotal,
		OnlineUsers,
	)
}

// SyncOnlineUsers sets OnlineUsers from the stored is_online flags.
func SyncOnlineUsers(db *gorm.DB) error {
	count, err := models.CountOnlineUsers(db)
	if err != nil {
		return err
	}
	OnlineUsers.Set(float64(count))
	return nil
}

// RecordLogin records the outcome of a login attempt.
func RecordLogin(kind, outcome string) {
	LoginsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordQuoteSubmitted records a newly created quote.
func RecordQuoteSubmitted(owner string) {
	QuotesSubmittedTotal.WithLabelValues(owner).Inc()
}

// Middleware records request count and latency. Unmatched routes are grouped
// under "unmatched" to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
