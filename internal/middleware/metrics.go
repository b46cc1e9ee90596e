package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Authentication metrics
	authLoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"}, // status: success/failure/blocked
	)

	authTokenVerifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verified_total",
			Help: "Total number of session token verifications",
		},
		[]string{"status"}, // status: success/failure
	)

	authResetTokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_reset_tokens_issued_total",
			Help: "Total number of password reset tokens issued",
		},
	)
)

// Metrics creates a Prometheus metrics middleware
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		// Process request
		c.Next()

		// Record metrics
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// RecordLoginAttempt records a login attempt metric
func RecordLoginAttempt(status string) {
	authLoginAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordTokenVerification records a session token verification metric
func RecordTokenVerification(status string) {
	authTokenVerifiedTotal.WithLabelValues(status).Inc()
}

// RecordResetTokenIssued records an issued password reset token
func RecordResetTokenIssued() {
	authResetTokensIssuedTotal.Inc()
}
