package observe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

// findMetric searches for a metric by name in ResourceMetrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	found := findMetric(rm, name)
	if found == nil {
		return 0
	}
	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", name, found.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordResolution(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	ok := ResolveMeta{Mode: "required", Carrier: "bearer", Outcome: "ok"}
	failed := ResolveMeta{Mode: "required", Carrier: "cookie", Outcome: "invalid_token"}

	m.RecordResolution(ctx, ok, 3*time.Millisecond, nil)
	m.RecordResolution(ctx, ok, 2*time.Millisecond, nil)
	m.RecordResolution(ctx, failed, time.Millisecond, errors.New("auth: invalid token"))

	rm := collect(t, reader)

	if got := sumValue(t, rm, MetricResolveTotal); got != 3 {
		t.Errorf("%s = %d, want 3", MetricResolveTotal, got)
	}
	if got := sumValue(t, rm, MetricResolveErrors); got != 1 {
		t.Errorf("%s = %d, want 1", MetricResolveErrors, got)
	}

	hist := findMetric(rm, MetricResolveDuration)
	if hist == nil {
		t.Fatalf("%s not found", MetricResolveDuration)
	}
	data, isHist := hist.Data.(metricdata.Histogram[float64])
	if !isHist {
		t.Fatalf("expected Histogram[float64], got %T", hist.Data)
	}
	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}
	if count != 3 {
		t.Errorf("histogram count = %d, want 3", count)
	}
}

func TestMetrics_Attributes(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordResolution(context.Background(),
		ResolveMeta{Mode: "optional", Carrier: "api_key_header", Outcome: "ok"},
		time.Millisecond, nil)

	rm := collect(t, reader)
	sum := findMetric(rm, MetricResolveTotal).Data.(metricdata.Sum[int64])
	attrs := sum.DataPoints[0].Attributes

	want := map[attribute.Key]string{
		"auth.mode":    "optional",
		"auth.carrier": "api_key_header",
		"auth.outcome": "ok",
	}
	for key, val := range want {
		got, ok := attrs.Value(key)
		if !ok || got.AsString() != val {
			t.Errorf("%s = %v, want %s", key, got, val)
		}
	}
}

func TestMetrics_RecordCacheLookup(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordCacheLookup(ctx, false)
	m.RecordCacheLookup(ctx, true)
	m.RecordCacheLookup(ctx, true)

	rm := collect(t, reader)
	sum := findMetric(rm, MetricExchangeCache).Data.(metricdata.Sum[int64])

	byHit := map[bool]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value("cache.hit")
		byHit[v.AsBool()] += dp.Value
	}
	if byHit[true] != 2 || byHit[false] != 1 {
		t.Errorf("cache lookups = %v, want hit=2 miss=1", byHit)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m, reader := newTestMetrics(t)
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.RecordResolution(context.Background(), ResolveMeta{Mode: "required"}, time.Millisecond, nil)
		}()
	}
	wg.Wait()

	if got := sumValue(t, collect(t, reader), MetricResolveTotal); got != n {
		t.Errorf("total = %d, want %d", got, n)
	}
}
