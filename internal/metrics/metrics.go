// Package metrics exposes Prometheus instrumentation for the HTTP
// surface and the token lifecycle.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	tokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Tokens issued by kind.",
		},
		[]string{"kind"},
	)

	revocationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocations_total",
		Help: "Tokens revoked via logout.",
	})
)

// Init registers the collectors with the default registry. Call once
// at startup.
func Init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration,
		loginsTotal, tokensIssuedTotal, revocationsTotal)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// Instrument records request counts and latencies. The route
// template, not the raw URL, feeds the path label to keep
// cardinality bounded.
func Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()
			httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return
		}
	}
}

// LoginAttempt counts a login by outcome ("success" or "failure").
func LoginAttempt(outcome string) { loginsTotal.WithLabelValues(outcome).Inc() }

// TokenIssued counts an issued token by kind.
func TokenIssued(kind string) { tokensIssuedTotal.WithLabelValues(kind).Inc() }

// TokenRevoked counts an explicit revocation.
func TokenRevoked() { revocationsTotal.Inc() }
