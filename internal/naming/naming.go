// Package naming derives GraphQL type names and storage table names from
// configured collection and schema names.
package naming

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Config holds naming customization options for storage-facing names.
type Config struct {
	// TableOverrides maps collection name -> table name.
	TableOverrides map[string]string `mapstructure:"table_overrides"`

	// Singularize derives table names by singularizing collection names
	// ("order_collection" stays as declared; "orders" becomes "order").
	Singularize bool `mapstructure:"singularize"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{TableOverrides: make(map[string]string)}
}

// TypeName sanitizes a configured name into a valid GraphQL type name.
// GraphQL names must match /[_A-Za-z][_0-9A-Za-z]*/; collection names are
// used as-is when already valid.
func TypeName(name string) string {
	if name == "" {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// TableName derives the storage table name for a collection: an explicit
// override wins, otherwise the collection name itself, optionally
// singularized.
func TableName(cfg Config, collection string) string {
	if override, ok := cfg.TableOverrides[collection]; ok {
		return override
	}
	if cfg.Singularize {
		return inflection.Singular(collection)
	}
	return collection
}
