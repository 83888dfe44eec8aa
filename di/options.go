package di

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/scopedi/introspect"
	"github.com/kbukum/scopedi/logger"
)

// DefaultMaxDepth bounds recursive resolution when no limit is configured.
const DefaultMaxDepth = 64

// Option configures a Container.
type Option func(*options)

type options struct {
	log              *logger.Logger
	introspector     introspect.Introspector
	maxDepth         int
	defaultConstruct bool
	meterProvider    metric.MeterProvider
	tracerProvider   trace.TracerProvider
}

func defaultOptions() options {
	return options{
		maxDepth:         DefaultMaxDepth,
		defaultConstruct: true,
	}
}

// WithLogger sets the logger the container writes to. Containers are silent by default.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithIntrospector replaces the default constructor catalog.
func WithIntrospector(in introspect.Introspector) Option {
	return func(o *options) { o.introspector = in }
}

// WithMaxDepth limits how deep constructor parameters may be resolved.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithoutDefaultConstruct makes unregistered constructor parameters an error
// instead of default-constructing them.
func WithoutDefaultConstruct() Option {
	return func(o *options) { o.defaultConstruct = false }
}

// WithMeterProvider records container metrics on mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithTracerProvider emits a span per top-level resolve on tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}
