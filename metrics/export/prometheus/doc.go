// Package prometheus renders SafeStreet client metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [safestreet.Client] and exposes an
// [http.Handler]. Counter names are prefixed safestreet_*_total; the single
// histogram is safestreet_request_latency_seconds. Nothing registers in a
// global Prometheus registry; callers mount the Handler themselves.
package prometheus
