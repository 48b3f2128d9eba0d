package querycache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/revittco/storefront/querycache"

// instruments mirrors Stats as OpenTelemetry counters. With no meter
// provider installed they are no-ops.
type instruments struct {
	fetches       metric.Int64Counter
	fetchFailures metric.Int64Counter
	mutations     metric.Int64Counter
	invalidations metric.Int64Counter
	evictions     metric.Int64Counter
}

func newInstruments() instruments {
	meter := otel.Meter(meterName)

	var in instruments
	in.fetches, _ = meter.Int64Counter("storefront.querycache.fetches",
		metric.WithDescription("Number of query fetches started"))
	in.fetchFailures, _ = meter.Int64Counter("storefront.querycache.fetch_failures",
		metric.WithDescription("Number of query fetches that failed"))
	in.mutations, _ = meter.Int64Counter("storefront.querycache.mutations",
		metric.WithDescription("Number of mutations executed"))
	in.invalidations, _ = meter.Int64Counter("storefront.querycache.invalidations",
		metric.WithDescription("Number of entries invalidated by tag"))
	in.evictions, _ = meter.Int64Counter("storefront.querycache.evictions",
		metric.WithDescription("Number of entries evicted"))
	return in
}

func (in instruments) add(ctx context.Context, c metric.Int64Counter, n int64, operation string) {
	if c == nil || n == 0 {
		return
	}
	c.Add(ctx, n, metric.WithAttributes(attribute.String("operation", operation)))
}
