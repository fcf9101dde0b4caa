package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/gqlquery"
	"collection-graphql/internal/model"
	"collection-graphql/internal/observability"
)

func testConfig() *model.Config {
	return &model.Config{
		Schemas: map[string]model.Schema{
			"user_schema": {Fields: []model.Field{
				{Name: "user_str", Type: model.ScalarType(model.ScalarString)},
				{Name: "user_num", Type: model.ScalarType(model.ScalarInt)},
			}},
			"order_schema": {Fields: []model.Field{
				{Name: "order_str", Type: model.ScalarType(model.ScalarString)},
				{Name: "user_str", Type: model.ScalarType(model.ScalarString)},
				{Name: "user_num", Type: model.ScalarType(model.ScalarInt)},
			}},
		},
		Collections: map[string]model.Collection{
			"user_collection": {SchemaName: "user_schema", Connections: []model.Connection{
				{
					Name:        "order_connection",
					Cardinality: model.OneToMany,
					Destination: "order_collection",
					Parts: []model.KeyPart{
						{SourceField: "user_str", DestinationField: "user_str"},
						{SourceField: "user_num", DestinationField: "user_num"},
					},
				},
			}},
			"order_collection": {SchemaName: "order_schema"},
		},
	}
}

func testAccessor() *accessor.Memory {
	mem := accessor.NewMemory()
	mem.Insert("user_collection",
		map[string]interface{}{"user_str": "b", "user_num": 12},
		map[string]interface{}{"user_str": "c", "user_num": 7},
	)
	mem.Insert("order_collection",
		map[string]interface{}{"order_str": "first", "user_str": "b", "user_num": 12},
		map[string]interface{}{"order_str": "second", "user_str": "b", "user_num": 12},
		map[string]interface{}{"order_str": "other", "user_str": "c", "user_num": 7},
	)
	return mem
}

func TestEngine_EndToEnd(t *testing.T) {
	eng, err := New(testConfig(), testAccessor())
	require.NoError(t, err)

	q, err := eng.Compile(`query Orders($name: String) {
		user_collection(user_str: $name) {
			user_str
			order_connection { order_str }
		}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Orders", q.OperationName())

	result := q.Execute(context.Background(), map[string]interface{}{"name": "b"})
	require.Empty(t, result.Errors)

	users := result.Data.(map[string]interface{})["user_collection"].([]interface{})
	require.Len(t, users, 1)
	user := users[0].(map[string]interface{})
	assert.Equal(t, "b", user["user_str"])

	orders := user["order_connection"].([]interface{})
	require.Len(t, orders, 2)
	assert.Equal(t, map[string]interface{}{"order_str": "first"}, orders[0])
	assert.Equal(t, map[string]interface{}{"order_str": "second"}, orders[1])
}

func TestEngine_HandleReuse(t *testing.T) {
	eng, err := New(testConfig(), testAccessor())
	require.NoError(t, err)

	q, err := eng.Compile(`query Orders($name: String) {
		user_collection(user_str: $name) { order_connection { order_str } }
	}`)
	require.NoError(t, err)

	for name, wantOrders := range map[string]int{"b": 2, "c": 1, "nobody": 0} {
		result := q.Execute(context.Background(), map[string]interface{}{"name": name})
		require.Empty(t, result.Errors, "variables name=%s", name)

		users := result.Data.(map[string]interface{})["user_collection"].([]interface{})
		if name == "nobody" {
			assert.Empty(t, users)
			continue
		}
		require.Len(t, users, 1)
		orders := users[0].(map[string]interface{})["order_connection"].([]interface{})
		assert.Len(t, orders, wantOrders)
	}
}

func TestEngine_ConnectionLimitArgument(t *testing.T) {
	eng, err := New(testConfig(), testAccessor())
	require.NoError(t, err)

	q, err := eng.Compile(`query FirstOrder {
		user_collection(user_str: "b") { order_connection(limit: 1) { order_str } }
	}`)
	require.NoError(t, err)

	result := q.Execute(context.Background(), nil)
	require.Empty(t, result.Errors)

	users := result.Data.(map[string]interface{})["user_collection"].([]interface{})
	require.Len(t, users, 1)
	orders := users[0].(map[string]interface{})["order_connection"].([]interface{})
	assert.Len(t, orders, 1)
}

func TestEngine_ConnectionFilterArgument(t *testing.T) {
	eng, err := New(testConfig(), testAccessor())
	require.NoError(t, err)

	q, err := eng.Compile(`query SecondOrder {
		user_collection(user_str: "b") { order_connection(order_str: "second") { order_str } }
	}`)
	require.NoError(t, err)

	result := q.Execute(context.Background(), nil)
	require.Empty(t, result.Errors)

	users := result.Data.(map[string]interface{})["user_collection"].([]interface{})
	require.Len(t, users, 1)
	orders := users[0].(map[string]interface{})["order_connection"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, map[string]interface{}{"order_str": "second"}, orders[0])
}

func TestEngine_CompileErrors(t *testing.T) {
	eng, err := New(testConfig(), testAccessor())
	require.NoError(t, err)

	_, err = eng.Compile(`query Bad { no_such_collection { x } }`)
	require.ErrorIs(t, err, gqlquery.ErrInvalidQuery)

	_, err = eng.Compile(`{ user_collection { user_str } }`)
	require.ErrorIs(t, err, gqlquery.ErrMissingOperationName)
}

func TestEngine_InvalidModel(t *testing.T) {
	cfg := testConfig()
	delete(cfg.Collections, "order_collection")

	_, err := New(cfg, testAccessor())
	require.Error(t, err)
}

func TestEngine_Metrics(t *testing.T) {
	metrics := observability.NewQueryMetrics(prometheus.NewRegistry())
	eng, err := New(testConfig(), testAccessor(), WithMetrics(metrics))
	require.NoError(t, err)

	q, err := eng.Compile(`query Users { user_collection { user_str } }`)
	require.NoError(t, err)

	result := q.Execute(context.Background(), nil)
	require.Empty(t, result.Errors)
}
