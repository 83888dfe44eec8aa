package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metric names recorded by the container.
const (
	MetricResolutions  = "di.resolutions"
	MetricConstruction = "di.constructions"
	MetricConstructDur = "di.construction.duration"
	MetricScopeDepth   = "di.scope.depth"
	MetricErrors       = "di.errors"
)

// Resolution outcomes.
const (
	OutcomeCached      = "cached"
	OutcomeConstructed = "constructed"
	OutcomeError       = "error"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the container meter from the given provider, or from the
// global provider when mp is nil.
func Meter(mp metric.MeterProvider) metric.Meter {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return mp.Meter(InstrumentationName)
}

// Instruments holds the metric instruments the container records into.
type Instruments struct {
	resolutions  metric.Int64Counter
	constructed  metric.Int64Counter
	constructDur metric.Float64Histogram
	scopeDepth   metric.Int64UpDownCounter
	errors       metric.Int64Counter
}

// NewInstruments creates the container instruments on the given meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	resolutions, err := meter.Int64Counter(MetricResolutions,
		metric.WithDescription("Resolve calls by lifetime and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolutions, err)
	}

	constructed, err := meter.Int64Counter(MetricConstruction,
		metric.WithDescription("Instances constructed by lifetime"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricConstruction, err)
	}

	constructDur, err := meter.Float64Histogram(MetricConstructDur,
		metric.WithDescription("Time spent in constructors"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricConstructDur, err)
	}

	scopeDepth, err := meter.Int64UpDownCounter(MetricScopeDepth,
		metric.WithDescription("Currently open scope frames"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricScopeDepth, err)
	}

	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Container errors by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	return &Instruments{
		resolutions:  resolutions,
		constructed:  constructed,
		constructDur: constructDur,
		scopeDepth:   scopeDepth,
		errors:       errs,
	}, nil
}

// NopInstruments returns instruments backed by a no-op meter.
func NopInstruments() *Instruments {
	in, _ := NewInstruments(noop.NewMeterProvider().Meter(InstrumentationName))
	return in
}

// RecordResolution counts one resolve call.
func (in *Instruments) RecordResolution(ctx context.Context, lifetime, outcome string) {
	in.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lifetime", lifetime),
		attribute.String("outcome", outcome),
	))
}

// RecordConstruction counts one constructor invocation and its duration.
func (in *Instruments) RecordConstruction(ctx context.Context, lifetime string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("lifetime", lifetime))
	in.constructed.Add(ctx, 1, attrs)
	in.constructDur.Record(ctx, d.Seconds(), attrs)
}

// RecordScope adjusts the open scope count by delta (+1 on begin, -1 on end).
func (in *Instruments) RecordScope(ctx context.Context, delta int64) {
	in.scopeDepth.Add(ctx, delta)
}

// RecordError counts one error by code.
func (in *Instruments) RecordError(ctx context.Context, code string) {
	in.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}
