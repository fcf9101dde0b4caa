package sqlaccessor

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-graphql/internal/model"
	"collection-graphql/internal/naming"
)

func newAccessor(t *testing.T) (*Accessor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, naming.DefaultConfig()), mock
}

func TestSelect_CompositeFilter(t *testing.T) {
	a, mock := newAccessor(t)

	mock.ExpectQuery("SELECT \\* FROM `order_collection` WHERE `user_num` = \\? AND `user_str` = \\?").
		WithArgs(12, "b").
		WillReturnRows(sqlmock.NewRows([]string{"order_str", "user_str", "user_num"}).
			AddRow([]byte("o1"), []byte("b"), 12).
			AddRow([]byte("o2"), []byte("b"), 12))

	rows, err := a.Select(context.Background(), nil, "order_collection", nil,
		map[string]interface{}{"user_str": "b", "user_num": 12}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "o1", rows[0]["order_str"])
	assert.Equal(t, "b", rows[0]["user_str"])
	assert.EqualValues(t, 12, rows[0]["user_num"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_LimitOffset(t *testing.T) {
	a, mock := newAccessor(t)

	mock.ExpectQuery("SELECT \\* FROM `order_collection` LIMIT 2 OFFSET 4").
		WillReturnRows(sqlmock.NewRows([]string{"order_str"}))

	rows, err := a.Select(context.Background(), nil, "order_collection", nil, nil,
		map[string]interface{}{"limit": 2, "offset": 4})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_TableOverride(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := naming.DefaultConfig()
	cfg.TableOverrides["order_collection"] = "orders"
	a := New(db, cfg)

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"order_str"}).AddRow("o1"))

	rows, err := a.Select(context.Background(), nil, "order_collection", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_QueryError(t *testing.T) {
	a, mock := newAccessor(t)

	mock.ExpectQuery("SELECT \\* FROM `order_collection`").
		WillReturnError(assert.AnError)

	_, err := a.Select(context.Background(), nil, "order_collection", nil, nil, nil)
	require.ErrorIs(t, err, assert.AnError)
}

func TestArguments(t *testing.T) {
	a := New(nil, naming.DefaultConfig())

	assert.Empty(t, a.Arguments(model.OneToOne))

	args := a.Arguments(model.OneToMany)
	require.Len(t, args, 2)
	assert.Equal(t, "limit", args[0].Name)
	assert.Equal(t, "offset", args[1].Name)
}
