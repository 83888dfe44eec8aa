// Package observability wires OpenTelemetry into the container.
//
// Instruments holds the counters and histograms the container records on
// every resolve, construction, scope change, and error. Tracer returns the
// tracer used for di.resolve spans. Init installs OTLP/HTTP trace and metric
// exporters globally for applications that want them exported.
package observability
