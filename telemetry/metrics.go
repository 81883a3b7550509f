// Package telemetry provides Prometheus metrics, OpenTelemetry tracing setup,
// and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	TokenRefreshes       prometheus.Counter
	TokenRefreshFailures prometheus.Counter
	HelixRequests        prometheus.Counter
	ChattersRequests     prometheus.Counter

	// HTTP server metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{Name: "twitch_token_refreshes_total", Help: "Number of app access token renewals attempted"})
		TokenRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "twitch_token_refresh_failures_total", Help: "Number of app access token renewals that failed"})
		HelixRequests = promauto.NewCounter(prometheus.CounterOpts{Name: "twitch_helix_requests_total", Help: "Number of Helix users API requests issued"})
		ChattersRequests = promauto.NewCounter(prometheus.CounterOpts{Name: "twitch_chatters_requests_total", Help: "Number of TMI chatters requests issued"})
		HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests served, by path and status"}, []string{"path", "status"})
		HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration seconds", Buckets: prometheus.DefBuckets}, []string{"path"})
	})
}

// CountTokenRefresh records a token renewal attempt and its outcome.
func CountTokenRefresh(ok bool) {
	if TokenRefreshes != nil {
		TokenRefreshes.Inc()
	}
	if !ok && TokenRefreshFailures != nil {
		TokenRefreshFailures.Inc()
	}
}

// CountHelixRequest records an outbound Helix users API request.
func CountHelixRequest() {
	if HelixRequests != nil {
		HelixRequests.Inc()
	}
}

// CountChattersRequest records an outbound TMI chatters request.
func CountChattersRequest() {
	if ChattersRequests != nil {
		ChattersRequests.Inc()
	}
}

// ObserveHTTPRequest records a served HTTP request.
func ObserveHTTPRequest(path string, status int, d time.Duration) {
	if HTTPRequests != nil {
		HTTPRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	}
	if HTTPDuration != nil {
		HTTPDuration.WithLabelValues(path).Observe(d.Seconds())
	}
}

// Correlation ID helpers ----------------------------------------------------

type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger carrying the corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
