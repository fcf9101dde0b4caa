package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/model"
)

func TestRecordRequest(t *testing.T) {
	m := NewQueryMetrics(prometheus.NewRegistry())

	m.RecordRequest("GetUsers", 25*time.Millisecond, false)
	m.RecordRequest("GetUsers", 10*time.Millisecond, true)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCounter.WithLabelValues("GetUsers", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCounter.WithLabelValues("GetUsers", "error")))
}

func TestRecordSelect(t *testing.T) {
	m := NewQueryMetrics(prometheus.NewRegistry())

	m.RecordSelect("order_collection", "order_connection", time.Millisecond, 2, nil)
	m.RecordSelect("order_collection", "root", time.Millisecond, 0, errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.selectCounter.WithLabelValues("order_collection", "order_connection", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.selectCounter.WithLabelValues("order_collection", "root", "error")))
}

func TestActiveRequestsGauge(t *testing.T) {
	m := NewQueryMetrics(prometheus.NewRegistry())

	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeRequests))
}

func TestQueryMetricsContext(t *testing.T) {
	m := NewQueryMetrics(prometheus.NewRegistry())

	ctx := ContextWithQueryMetrics(context.Background(), m)
	assert.Same(t, m, QueryMetricsFromContext(ctx))
	assert.Nil(t, QueryMetricsFromContext(context.Background()))
}

type stubAccessor struct {
	rows []map[string]interface{}
	err  error
	from *accessor.From
}

func (s *stubAccessor) Select(_ context.Context, _ map[string]interface{}, _ string, from *accessor.From, _ map[string]interface{}, _ map[string]interface{}) ([]map[string]interface{}, error) {
	s.from = from
	return s.rows, s.err
}

func (s *stubAccessor) Arguments(model.Cardinality) []accessor.Argument {
	return []accessor.Argument{{Name: "limit", Type: model.ScalarInt}}
}

func TestInstrumentedAccessor(t *testing.T) {
	inner := &stubAccessor{rows: []map[string]interface{}{{"id": 1}}}
	m := NewQueryMetrics(prometheus.NewRegistry())
	ia := InstrumentAccessor(inner, m)

	from := &accessor.From{Collection: "user_collection", Connection: "order_connection"}
	rows, err := ia.Select(context.Background(), nil, "order_collection", from, nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, from, inner.from)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.selectCounter.WithLabelValues("order_collection", "order_connection", "ok")))

	// Extra arguments pass through untouched.
	args := ia.Arguments(model.OneToMany)
	require.Len(t, args, 1)
	assert.Equal(t, "limit", args[0].Name)
}
