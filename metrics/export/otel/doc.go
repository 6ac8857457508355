// Package otel provides OpenTelemetry metric bindings for SafeStreet client
// counters and histograms.
//
// [NewOTelExporter] registers an Int64ObservableCounter per client metric
// and Int64ObservableGauge instruments per histogram bucket. A single
// callback reads [safestreet.Client.MetricsSnapshot] on each collection
// cycle. Callers supply the Meter; the package never owns a MeterProvider.
package otel
