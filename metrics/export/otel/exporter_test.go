package otel

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	safestreet "github.com/safestreet/safestreet-go"
)

type fakeSource struct {
	snapshot safestreet.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() safestreet.MetricsSnapshot { return f.snapshot }
func (f *fakeSource) NotificationsDropped() uint64                { return f.dropped }

func TestNewOTelExporterValidation(t *testing.T) {
	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); !errors.Is(err, ErrNilMeter) {
		t.Fatalf("got %v, want ErrNilMeter", err)
	}

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter("test")

	if _, err := NewOTelExporterFromSource(meter, nil); !errors.Is(err, ErrNilSource) {
		t.Fatalf("got %v, want ErrNilSource", err)
	}
}

func TestOTelExporterCollects(t *testing.T) {
	source := &fakeSource{
		snapshot: safestreet.MetricsSnapshot{
			Counters: map[safestreet.MetricID]uint64{
				safestreet.MetricRequestSuccess: 9,
				safestreet.MetricGuardRedirect:  4,
			},
			Histograms: map[safestreet.MetricID][]uint64{
				safestreet.MetricRequestLatency: {1, 1, 0, 0, 0, 0, 0, 0},
			},
		},
		dropped: 5,
	}

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter("test")

	exporter, err := NewOTelExporterFromSource(meter, source)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	defer func() {
		if err := exporter.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	values := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					values[m.Name] = dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					values[m.Name] = dp.Value
				}
			}
		}
	}

	checks := map[string]int64{
		"safestreet_request_success_total":                9,
		"safestreet_guard_redirect_total":                 4,
		"safestreet_notifications_dropped_total":          5,
		"safestreet_request_latency_seconds_bucket_le_0_005": 1,
		"safestreet_request_latency_seconds_bucket_le_inf":   2,
		"safestreet_request_latency_seconds_count":           2,
	}
	for name, want := range checks {
		if got, ok := values[name]; !ok || got != want {
			t.Fatalf("%s = %d (present=%v), want %d", name, got, ok, want)
		}
	}
}
