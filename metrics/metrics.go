// Package metrics exposes Prometheus collectors for the dispenser API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "pastillero"

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers collectors on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns every collector. A nil *Manager is valid and records nothing,
// which is how metrics are switched off.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	pillsSeeded        prometheus.Counter
	statisticsRecorded *prometheus.CounterVec
	statisticsCleared  prometheus.Counter
	pickupDelay        prometheus.Histogram
	storeErrors        *prometheus.CounterVec
}

// NewManager creates a manager with Go runtime and process collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.pillsSeeded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pills_seeded_total",
		Help:      "Pill definitions inserted by the seed endpoint",
	})

	m.statisticsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "statistics_recorded_total",
		Help:      "Dispense statistics persisted, by module",
	}, []string{"module"})

	m.statisticsCleared = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "statistics_cleared_total",
		Help:      "Dispense statistics removed by the clear endpoint",
	})

	m.pickupDelay = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "pickup_delay_seconds",
		Help:      "Time between dispense and pickup as reported by the dispenser",
		Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "store_errors_total",
		Help:      "Failed store operations by error kind",
	}, []string{"kind"})

	return m
}

func (m *Manager) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Manager) PillsSeeded(n int) {
	if m == nil {
		return
	}
	m.pillsSeeded.Add(float64(n))
}

func (m *Manager) StatisticRecorded(module int, pickupDelay time.Duration) {
	if m == nil {
		return
	}
	m.statisticsRecorded.WithLabelValues(strconv.Itoa(module)).Inc()
	if pickupDelay >= 0 {
		m.pickupDelay.Observe(pickupDelay.Seconds())
	}
}

func (m *Manager) StatisticsCleared(n int64) {
	if m == nil {
		return
	}
	m.statisticsCleared.Add(float64(n))
}

func (m *Manager) StoreError(kind string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
