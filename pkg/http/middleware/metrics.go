package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        *prometheus.GaugeVec
	metricsOnce         sync.Once
)

func initHTTPMetrics() {
	metricsOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fxpulse_http_requests_total",
			Help: "HTTP requests by route template, method and status",
		}, []string{"route", "method", "status"})
		httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fxpulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "class"})
		httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fxpulse_http_in_flight_requests",
			Help: "Requests currently being served",
		}, []string{"route", "method"})
	})
}

// Metrics records request counts and latency labelled by the echo route
// template, so /api/dashboard?pair=X stays a single series. Routes in
// longLived, such as websocket streams, are counted but kept out of the
// latency histogram.
func Metrics(longLived ...string) echo.MiddlewareFunc {
	initHTTPMetrics()
	skip := make(map[string]bool, len(longLived))
	for _, r := range longLived {
		skip[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			inFlight := httpInFlight.WithLabelValues(route, method)
			inFlight.Inc()
			defer inFlight.Dec()
			start := time.Now()

			err := next(c)

			code := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
			httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
			if !skip[route] {
				httpRequestDuration.WithLabelValues(route, method, statusClass(code)).Observe(time.Since(start).Seconds())
			}
			return err
		}
	}
}

func statusClass(code int) string {
	if code < 100 || code >= 600 {
		return "5xx"
	}
	return strconv.Itoa(code/100) + "xx"
}
