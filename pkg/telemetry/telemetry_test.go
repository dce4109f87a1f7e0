package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	m.ObserveFlush(3, 2*time.Millisecond)
	m.ObserveFlush(2, time.Millisecond)
	m.IncCircularUpdate()
	m.IncError("render")
	m.IncError("render")
	m.IncError("mounted hook")
	m.ComponentMounted()
	m.ComponentMounted()
	m.ComponentDestroyed()

	if got := testutil.ToFloat64(m.flushes); got != 2 {
		t.Errorf("flushes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.watcherRuns); got != 5 {
		t.Errorf("watcher runs = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.circularUpdates); got != 1 {
		t.Errorf("circular updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("render")); got != 2 {
		t.Errorf("render errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.componentsActive); got != 1 {
		t.Errorf("components active = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_flush_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("flush duration histogram not registered under namespace")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFlush(1, time.Second)
	m.IncCircularUpdate()
	m.IncError("x")
	m.ComponentMounted()
	m.ComponentDestroyed()
}

func TestTracerSpans(t *testing.T) {
	tr := NewTracerFromProvider(noop.NewTracerProvider(), "")
	ctx, span := tr.Start(context.Background(), "reactive.flush", attribute.Int("queue", 2))
	if ctx == nil {
		t.Fatal("Start returned nil context")
	}
	span.SetInt("runs", 2)
	span.End(errors.New("boom"))

	var nilTracer *Tracer
	_, s := nilTracer.Start(context.Background(), "noop")
	s.SetInt("x", 1)
	s.End(nil)
}
