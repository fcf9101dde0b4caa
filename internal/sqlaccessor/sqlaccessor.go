// Package sqlaccessor implements the storage accessor over database/sql.
// Collection fetches become single-table SELECTs with equality predicates
// built from the engine-computed filter; pagination arrives through the
// declared limit and offset arguments.
package sqlaccessor

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/model"
	"collection-graphql/internal/naming"
)

// Accessor executes collection fetches against a SQL database.
type Accessor struct {
	db     *sql.DB
	naming naming.Config
}

// New creates a SQL accessor over an open database handle.
func New(db *sql.DB, namingCfg naming.Config) *Accessor {
	return &Accessor{db: db, naming: namingCfg}
}

func (a *Accessor) Select(ctx context.Context, _ map[string]interface{}, collection string, _ *accessor.From, filter map[string]interface{}, args map[string]interface{}) ([]map[string]interface{}, error) {
	if a.db == nil {
		return nil, sql.ErrConnDone
	}

	table := naming.TableName(a.naming, collection)
	qb := sq.Select("*").From(quoteIdentifier(table))

	// Deterministic predicate order keeps generated SQL stable.
	for _, column := range sortedKeys(filter) {
		qb = qb.Where(sq.Eq{quoteIdentifier(column): filter[column]})
	}
	if limit, ok := intArg(args, "limit"); ok {
		qb = qb.Limit(uint64(limit))
	}
	if offset, ok := intArg(args, "offset"); ok {
		qb = qb.Offset(uint64(offset))
	}

	query, queryArgs, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query for collection %s: %w", collection, err)
	}

	rows, err := a.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("query for collection %s failed: %w", collection, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRows(rows)
}

func (a *Accessor) Arguments(card model.Cardinality) []accessor.Argument {
	if card != model.OneToMany {
		return nil
	}
	return []accessor.Argument{
		{Name: "limit", Type: model.ScalarInt},
		{Name: "offset", Type: model.ScalarInt},
	}
}

func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dests := make([]interface{}, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return results, nil
}

// normalizeValue converts driver byte slices to strings so result trees and
// filter values compare cleanly.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// quoteIdentifier backtick-quotes a table or column name, doubling any
// embedded backticks.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	if args == nil {
		return 0, false
	}
	value, ok := args[key]
	if !ok || value == nil {
		return 0, false
	}
	n, ok := value.(int)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}
