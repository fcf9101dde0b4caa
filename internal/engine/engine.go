// Package engine ties the pieces together: it compiles a model
// configuration into an executable GraphQL schema bound to a storage
// accessor, and executes compiled queries with logging, metrics, and
// tracing around each run.
package engine

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/gqlquery"
	"collection-graphql/internal/logging"
	"collection-graphql/internal/model"
	"collection-graphql/internal/observability"
	"collection-graphql/internal/resolver"
)

const tracerName = "collection-graphql/engine"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used around query execution.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics sets the metrics recorded for query execution and storage
// selects.
func WithMetrics(m *observability.QueryMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine holds a compiled schema bound to an instrumented accessor. It is
// immutable after New and safe for concurrent use.
type Engine struct {
	schema  graphql.Schema
	log     *logging.Logger
	metrics *observability.QueryMetrics
	tracer  trace.Tracer
}

// New validates the configuration and compiles it into a schema whose
// resolvers delegate every fetch to the accessor. Compilation is eager; any
// model error is returned here, never at query time.
func New(cfg *model.Config, acc accessor.Accessor, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:    logging.NewLogger(logging.Config{}),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}

	instrumented := observability.InstrumentAccessor(acc, e.metrics)
	schema, err := resolver.NewBuilder(cfg, instrumented).Build()
	if err != nil {
		return nil, err
	}
	e.schema = schema
	return e, nil
}

// Schema returns the compiled GraphQL schema, for HTTP handlers and
// introspection.
func (e *Engine) Schema() graphql.Schema {
	return e.schema
}

// Compile parses and validates query text into a reusable Query.
func (e *Engine) Compile(query string) (*Query, error) {
	handle, err := gqlquery.Compile(e.schema, query)
	if err != nil {
		return nil, err
	}
	return &Query{handle: handle, eng: e}, nil
}

// Query is a compiled query bound to the engine. Safe for concurrent
// Execute calls with different variables.
type Query struct {
	handle *gqlquery.Handle
	eng    *Engine
}

// OperationName returns the compiled operation's name.
func (q *Query) OperationName() string {
	return q.handle.OperationName()
}

// Execute runs the query. Resolver failures surface in the result's error
// list; the data for failed subtrees is null.
func (q *Query) Execute(ctx context.Context, variables map[string]interface{}) *graphql.Result {
	operation := q.handle.OperationName()

	ctx, span := q.eng.tracer.Start(ctx, "graphql.query",
		trace.WithAttributes(attribute.String("graphql.operation.name", operation)))
	defer span.End()

	if q.eng.metrics != nil {
		q.eng.metrics.IncrementActiveRequests()
		defer q.eng.metrics.DecrementActiveRequests()
		ctx = observability.ContextWithQueryMetrics(ctx, q.eng.metrics)
	}

	start := time.Now()
	result := q.handle.Execute(ctx, variables)
	elapsed := time.Since(start)

	hasErrors := len(result.Errors) > 0
	if q.eng.metrics != nil {
		q.eng.metrics.RecordRequest(operation, elapsed, hasErrors)
	}

	if hasErrors {
		span.SetStatus(codes.Error, result.Errors[0].Message)
		q.eng.log.WarnContext(ctx, "query completed with errors",
			"operation", operation,
			"duration", elapsed,
			"errors", len(result.Errors))
	} else {
		q.eng.log.DebugContext(ctx, "query completed",
			"operation", operation,
			"duration", elapsed)
	}

	return result
}
