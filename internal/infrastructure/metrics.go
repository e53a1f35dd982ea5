package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the engine's instruments. A nil *Metrics records nothing.
type Metrics struct {
	FilesParsed   metric.Int64Counter
	ParseFailures metric.Int64Counter
	ParseWarnings metric.Int64Counter
	Fetches       metric.Int64Counter
	ParseDuration metric.Float64Histogram
}

// NewMetrics creates the engine instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	filesParsed, err := meter.Int64Counter(
		"results_files_parsed_total",
		metric.WithDescription("Total number of results files parsed successfully"),
	)
	if err != nil {
		return nil, err
	}

	parseFailures, err := meter.Int64Counter(
		"results_parse_failures_total",
		metric.WithDescription("Total number of results files that failed to parse"),
	)
	if err != nil {
		return nil, err
	}

	parseWarnings, err := meter.Int64Counter(
		"results_parse_warnings_total",
		metric.WithDescription("Total number of data-quality warnings raised while parsing"),
	)
	if err != nil {
		return nil, err
	}

	fetches, err := meter.Int64Counter(
		"results_fetches_total",
		metric.WithDescription("Total number of results file fetches"),
	)
	if err != nil {
		return nil, err
	}

	parseDuration, err := meter.Float64Histogram(
		"results_parse_duration_seconds",
		metric.WithDescription("Results file parse duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		FilesParsed:   filesParsed,
		ParseFailures: parseFailures,
		ParseWarnings: parseWarnings,
		Fetches:       fetches,
		ParseDuration: parseDuration,
	}, nil
}

// RecordParse records the outcome of one parse.
func (m *Metrics) RecordParse(ctx context.Context, year int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.Int("year", year)}
	status := attribute.String("status", "success")
	if err != nil {
		status = attribute.String("status", "failure")
		errorAttrs := append(attrs, attribute.String("error.type", fmt.Sprintf("%T", err)))
		m.ParseFailures.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
	} else {
		m.FilesParsed.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.ParseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(append(attrs, status)...))
}

// RecordWarning counts one parse warning.
func (m *Metrics) RecordWarning(ctx context.Context, year int, kind string) {
	if m == nil {
		return
	}
	m.ParseWarnings.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("year", year),
		attribute.String("kind", kind),
	))
}

// RecordFetch counts one fetch, split by cache outcome.
func (m *Metrics) RecordFetch(ctx context.Context, year int, cacheHit bool, err error) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.Fetches.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("year", year),
		attribute.String("cache", outcome),
		attribute.String("status", status),
	))
}
