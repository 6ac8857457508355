// Package internaldefs holds the metric name and bucket definitions shared
// by the exporter implementations.
//
// Both exporters read from this single list, so the Prometheus and OTel
// views of a client always carry identical names and bounds.
package internaldefs
