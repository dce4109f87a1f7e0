package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
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
		Namespace: "reactor",
		// Flushes are usually sub-millisecond.
		Buckets:  []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the runtime's Prometheus collectors.
type Metrics struct {
	flushes          prometheus.Counter
	watcherRuns      prometheus.Counter
	flushDuration    prometheus.Histogram
	circularUpdates  prometheus.Counter
	errors           *prometheus.CounterVec
	componentsActive prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
// Registering twice on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		watcherRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_runs_total",
			Help:        "Total number of watchers run by the scheduler",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		circularUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "circular_updates_total",
			Help:        "Total number of watchers dropped for re-queuing past the update limit",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of errors reported to the error channel",
			ConstLabels: config.ConstLabels,
		}, []string{"context"}),

		componentsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_active",
			Help:        "Number of mounted component instances not yet destroyed",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveFlush records one completed flush.
func (m *Metrics) ObserveFlush(runs int, d time.Duration) {
	if m == nil {
		return
	}
	m.flushes.Inc()
	m.watcherRuns.Add(float64(runs))
	m.flushDuration.Observe(d.Seconds())
}

// IncCircularUpdate records a watcher dropped by the update limit.
func (m *Metrics) IncCircularUpdate() {
	if m == nil {
		return
	}
	m.circularUpdates.Inc()
}

// IncError records an error reported in the given context.
func (m *Metrics) IncError(context string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(context).Inc()
}

// ComponentMounted increments the active component gauge.
func (m *Metrics) ComponentMounted() {
	if m == nil {
		return
	}
	m.componentsActive.Inc()
}

// ComponentDestroyed decrements the active component gauge.
func (m *Metrics) ComponentDestroyed() {
	if m == nil {
		return
	}
	m.componentsActive.Dec()
}
