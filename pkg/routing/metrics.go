package routing

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the routing metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "veldt").
	Namespace string

	// Subsystem is the metrics subsystem (default: "routing").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for build duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the routing metrics.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the build duration histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "veldt",
		Subsystem: "routing",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for route table construction.
type metrics struct {
	buildsTotal        *prometheus.CounterVec
	buildDuration      prometheus.Histogram
	tableEntries       prometheus.Histogram
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheInvalidations prometheus.Counter
}

// globalMetrics is the singleton metrics instance.
// Created on the first call to EnableMetrics(). Recording reads the
// pointer atomically so it never races with a concurrent EnableMetrics.
var (
	globalMetrics   atomic.Pointer[metrics]
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "builds_total",
			Help:        "Total number of route table builds by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_duration_seconds",
			Help:        "Route table build duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		tableEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_entries",
			Help:        "Number of entries per built route table",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 5, 10, 50, 100, 500, 1000},
		}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_hits_total",
			Help:        "Total number of route table cache hits",
			ConstLabels: config.ConstLabels,
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_misses_total",
			Help:        "Total number of route table cache misses",
			ConstLabels: config.ConstLabels,
		}),

		cacheInvalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_invalidations_total",
			Help:        "Total number of wholesale route table cache invalidations",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// EnableMetrics registers route table metrics with the configured registry.
// Until it is called, metric recording is a no-op.
//
// Metrics collected:
//   - veldt_routing_builds_total: Counter of builds by status
//   - veldt_routing_build_duration_seconds: Histogram of build duration
//   - veldt_routing_table_entries: Histogram of entries per built table
//   - veldt_routing_cache_hits_total: Counter of cache hits
//   - veldt_routing_cache_misses_total: Counter of cache misses
//   - veldt_routing_cache_invalidations_total: Counter of cache clears
func EnableMetrics(opts ...MetricsOption) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics.Load() == nil {
		globalMetrics.Store(initMetrics(config))
	}
	globalMetricsMu.Unlock()
}

func recordBuild(status string, seconds float64, entries int) {
	m := globalMetrics.Load()
	if m == nil {
		return
	}
	m.buildsTotal.WithLabelValues(status).Inc()
	m.buildDuration.Observe(seconds)
	if status == "success" {
		m.tableEntries.Observe(float64(entries))
	}
}

func recordCacheHit() {
	if m := globalMetrics.Load(); m != nil {
		m.cacheHits.Inc()
	}
}

func recordCacheMiss() {
	if m := globalMetrics.Load(); m != nil {
		m.cacheMisses.Inc()
	}
}

func recordCacheInvalidation() {
	if m := globalMetrics.Load(); m != nil {
		m.cacheInvalidations.Inc()
	}
}
