package accessor

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"

	"gopkg.in/yaml.v3"

	"collection-graphql/internal/model"
)

// Memory is a map-backed Accessor. Rows are matched by equality against the
// filter and returned in insertion order. 1:N connection fields gain limit
// and offset arguments.
type Memory struct {
	mu   sync.RWMutex
	rows map[string][]map[string]interface{}
}

// NewMemory returns an empty in-memory accessor.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string][]map[string]interface{})}
}

// NewMemoryFromFile seeds an in-memory accessor from a YAML file mapping
// collection names to row lists.
func NewMemoryFromFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %q: %w", path, err)
	}
	var seed map[string][]map[string]interface{}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("invalid data file %q: %w", path, err)
	}

	m := NewMemory()
	for collection, rows := range seed {
		m.Insert(collection, rows...)
	}
	return m, nil
}

// Insert appends rows to a collection.
func (m *Memory) Insert(collection string, rows ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[collection] = append(m.rows[collection], rows...)
}

func (m *Memory) Select(ctx context.Context, _ map[string]interface{}, collection string, _ *From, filter map[string]interface{}, args map[string]interface{}) ([]map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []map[string]interface{}{}
	for _, row := range m.rows[collection] {
		if rowMatches(row, filter) {
			matched = append(matched, row)
		}
	}

	if offset, ok := intArg(args, "offset"); ok {
		if offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[offset:]
		}
	}
	if limit, ok := intArg(args, "limit"); ok && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

func (m *Memory) Arguments(card model.Cardinality) []Argument {
	if card != model.OneToMany {
		return nil
	}
	return []Argument{
		{Name: "limit", Type: model.ScalarInt},
		{Name: "offset", Type: model.ScalarInt},
	}
}

func rowMatches(row, filter map[string]interface{}) bool {
	for key, want := range filter {
		got, ok := row[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares filter values against row values, normalizing the
// integer widths that YAML decoding and GraphQL argument coercion produce.
func valuesEqual(a, b interface{}) bool {
	if ai, ok := asInt64(a); ok {
		bi, ok := asInt64(b)
		return ok && ai == bi
	}
	return reflect.DeepEqual(a, b)
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	if args == nil {
		return 0, false
	}
	value, ok := args[key]
	if !ok || value == nil {
		return 0, false
	}
	n, ok := asInt64(value)
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}
