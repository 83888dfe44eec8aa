package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is %T, not an int64 sum", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")
	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestInstrumentsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	in, err := NewInstruments(Meter(mp))
	if err != nil {
		t.Fatalf("unexpected error creating instruments: %v", err)
	}

	ctx := context.Background()
	in.RecordResolution(ctx, "singleton", OutcomeConstructed)
	in.RecordResolution(ctx, "singleton", OutcomeCached)
	in.RecordConstruction(ctx, "singleton", 2*time.Millisecond)
	in.RecordScope(ctx, 1)
	in.RecordScope(ctx, 1)
	in.RecordScope(ctx, -1)
	in.RecordError(ctx, "SCOPE_UNDERFLOW")

	metrics := collect(t, reader)
	if got := sumOf(t, metrics[MetricResolutions]); got != 2 {
		t.Errorf("expected 2 resolutions, got %d", got)
	}
	if got := sumOf(t, metrics[MetricConstruction]); got != 1 {
		t.Errorf("expected 1 construction, got %d", got)
	}
	if got := sumOf(t, metrics[MetricScopeDepth]); got != 1 {
		t.Errorf("expected scope depth 1, got %d", got)
	}
	if got := sumOf(t, metrics[MetricErrors]); got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}
	if _, ok := metrics[MetricConstructDur].Data.(metricdata.Histogram[float64]); !ok {
		t.Errorf("expected duration histogram, got %T", metrics[MetricConstructDur].Data)
	}
}

func TestNopInstruments(t *testing.T) {
	in := NopInstruments()
	if in == nil {
		t.Fatal("expected non-nil instruments")
	}
	in.RecordResolution(context.Background(), "transient", OutcomeConstructed)
	in.RecordError(context.Background(), "X")
}

func TestTracerFromProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	_, span := Tracer(tp).Start(context.Background(), SpanResolve)
	SetSpanError(span, fmt.Errorf("boom"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != SpanResolve {
		t.Errorf("expected span %q, got %q", SpanResolve, ended[0].Name())
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status().Code)
	}
	if ended[0].InstrumentationScope().Name != InstrumentationName {
		t.Errorf("unexpected scope %q", ended[0].InstrumentationScope().Name)
	}
}

func TestTracerGlobalFallback(t *testing.T) {
	if Tracer(nil) == nil {
		t.Fatal("expected non-nil tracer")
	}
	if Meter(nil) == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestSetSpanErrorNilSpan(t *testing.T) {
	SetSpanError(nil, fmt.Errorf("ignored"))
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := samplerFor(tc.rate).Description(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(DefaultConfig("svc"))
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	if res == nil {
		t.Fatal("expected non-nil resource")
	}
}
