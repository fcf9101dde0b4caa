package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/model"
)

const tracerName = "collection-graphql/accessor"

// InstrumentedAccessor wraps a storage accessor with a span and metrics
// around every select.
type InstrumentedAccessor struct {
	inner   accessor.Accessor
	metrics *QueryMetrics
	tracer  trace.Tracer
}

// InstrumentAccessor wraps the accessor. metrics may be nil to trace only.
func InstrumentAccessor(inner accessor.Accessor, metrics *QueryMetrics) *InstrumentedAccessor {
	return &InstrumentedAccessor{
		inner:   inner,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

func (ia *InstrumentedAccessor) Select(ctx context.Context, parent map[string]interface{}, collection string, from *accessor.From, filter map[string]interface{}, args map[string]interface{}) ([]map[string]interface{}, error) {
	via := "root"
	attrs := []attribute.KeyValue{
		attribute.String("collection", collection),
		attribute.Int("filter.keys", len(filter)),
	}
	if from != nil {
		via = from.Connection
		attrs = append(attrs,
			attribute.String("connection", from.Connection),
			attribute.String("source.collection", from.Collection),
		)
	}

	ctx, span := ia.tracer.Start(ctx, "accessor.select",
		trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	rows, err := ia.inner.Select(ctx, parent, collection, from, filter, args)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("rows", len(rows)))
	}

	if ia.metrics != nil {
		ia.metrics.RecordSelect(collection, via, elapsed, len(rows), err)
	}

	return rows, err
}

func (ia *InstrumentedAccessor) Arguments(card model.Cardinality) []accessor.Argument {
	return ia.inner.Arguments(card)
}
