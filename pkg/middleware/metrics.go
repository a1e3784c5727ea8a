package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/router"
)

// Navigation outcomes recorded by the guard.
const (
	OutcomeAllowed    = "allowed"
	OutcomeRedirected = "redirected"
	OutcomeAborted    = "aborted"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors for navigations, HTTP requests and
// navigation channel sessions.
type Metrics struct {
	navigations      *prometheus.CounterVec
	navigationTime   *prometheus.HistogramVec
	navigationErrors *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
	wsErrors         *prometheus.CounterVec
}

// The default registerer rejects duplicate registration, so metrics bound
// to it are created once per process.
var (
	defaultMetrics   *Metrics
	defaultMetricsMu sync.Mutex
)

// Prometheus creates the routekit metrics.
//
// Metrics collected:
//   - routekit_navigations_total: navigations by route and outcome
//   - routekit_navigation_duration_seconds: guard chain duration by route
//   - routekit_navigation_errors_total: failed navigations by error code
//   - routekit_http_requests_total: HTTP requests by route pattern and status
//   - routekit_http_request_duration_seconds: HTTP latency by route pattern
//   - routekit_active_sessions: open navigation channel sessions
//   - routekit_websocket_errors_total: navigation channel errors by type
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.Registry != prometheus.DefaultRegisterer {
		return newMetrics(config)
	}

	defaultMetricsMu.Lock()
	defer defaultMetricsMu.Unlock()
	if defaultMetrics == nil {
		defaultMetrics = newMetrics(config)
	}
	return defaultMetrics
}

func newMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total navigations by destination route and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "outcome"}),

		navigationTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Time spent in navigation guards in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total failed navigations by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests by route pattern and status",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"pattern"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open navigation channel sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total navigation channel errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Guard returns a router guard that counts navigations and times the rest
// of the guard chain. Register it first so it sees every outcome.
func (m *Metrics) Guard() router.Guard {
	return router.GuardFunc(func(ctx context.Context, t *router.Transition, next router.Next) error {
		route := t.To.Name
		start := time.Now()

		err := next(ctx)

		m.navigationTime.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.navigations.WithLabelValues(route, outcome(err)).Inc()
		return err
	})
}

// ErrorHook returns a router error hook that counts failures by code.
func (m *Metrics) ErrorHook() router.ErrorHook {
	return func(_ context.Context, _ string, err error) {
		m.navigationErrors.WithLabelValues(errorCode(err)).Inc()
	}
}

// Handler records request counts and latency. Requests are labelled by
// the chi route pattern so that arbitrary paths do not create new series.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		pattern := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(pattern, strconv.Itoa(status)).Inc()
	})
}

// SessionOpened records a new navigation channel session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records a navigation channel session ending.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// WebSocketError records a navigation channel error.
func (m *Metrics) WebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}

func outcome(err error) string {
	if err == nil {
		return OutcomeAllowed
	}
	var redirect *router.Redirect
	if errors.As(err, &redirect) {
		return OutcomeRedirected
	}
	return OutcomeAborted
}

// errorCode keeps the error label bounded by the code registry.
func errorCode(err error) string {
	var rkErr *rkerrors.Error
	if errors.As(err, &rkErr) && rkErr.Code != "" {
		return rkErr.Code
	}
	return "unknown"
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
