package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	want := attribute.NewSet(attrs...)
	var total int64
	for _, dp := range sum.DataPoints {
		match := true
		for _, kv := range want.ToSlice() {
			v, ok := dp.Attributes.Value(kv.Key)
			if !ok || v.Emit() != kv.Value.Emit() {
				match = false
				break
			}
		}
		if match {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_RecordParse(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordParse(ctx, 2014, 10*time.Millisecond, nil)
	m.RecordParse(ctx, 2014, 5*time.Millisecond, nil)
	m.RecordParse(ctx, 1999, time.Millisecond, errors.New("missing totals"))

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, data["results_files_parsed_total"], attribute.Int("year", 2014)))
	assert.Equal(t, int64(1), sumFor(t, data["results_parse_failures_total"], attribute.Int("year", 1999)))

	hist, ok := data["results_parse_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestMetrics_RecordWarningAndFetch(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordWarning(ctx, 2011, "MISSING_CATEGORY_ROW")
	m.RecordWarning(ctx, 2011, "MISSING_CATEGORY_ROW")
	m.RecordWarning(ctx, 2011, "TOTALS_RECONCILIATION_MISMATCH")
	m.RecordFetch(ctx, 2011, true, nil)
	m.RecordFetch(ctx, 2011, false, nil)
	m.RecordFetch(ctx, 2011, false, errors.New("404"))

	data := collect(t, reader)
	warnings := data["results_parse_warnings_total"]
	assert.Equal(t, int64(2), sumFor(t, warnings, attribute.String("kind", "MISSING_CATEGORY_ROW")))
	assert.Equal(t, int64(1), sumFor(t, warnings, attribute.String("kind", "TOTALS_RECONCILIATION_MISMATCH")))

	fetches := data["results_fetches_total"]
	assert.Equal(t, int64(1), sumFor(t, fetches, attribute.String("cache", "hit")))
	assert.Equal(t, int64(2), sumFor(t, fetches, attribute.String("cache", "miss")))
	assert.Equal(t, int64(1), sumFor(t, fetches, attribute.String("status", "failure")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordParse(ctx, 2014, time.Second, nil)
		m.RecordWarning(ctx, 2014, "x")
		m.RecordFetch(ctx, 2014, false, nil)
	})
}
