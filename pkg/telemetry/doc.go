// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for
// the reactor runtime.
//
// Both types are nil-safe: a nil *Metrics or *Tracer records nothing, so the
// runtime can call them unconditionally.
//
// Metrics collected:
//   - reactor_flushes_total: Counter of scheduler flushes
//   - reactor_watcher_runs_total: Counter of watchers run by the scheduler
//   - reactor_flush_duration_seconds: Histogram of flush duration
//   - reactor_circular_updates_total: Counter of watchers dropped for re-queuing
//   - reactor_errors_total: Counter of errors reported by context
//   - reactor_components_active: Gauge of mounted, not yet destroyed components
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	rt := reactive.New(
//	    reactive.WithMetrics(telemetry.NewMetrics(telemetry.WithRegistry(reg))),
//	    reactive.WithTracer(telemetry.NewTracer("my-app")),
//	)
package telemetry
