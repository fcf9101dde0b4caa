// Package accessor defines the storage contract the engine delegates every
// fetch to, and provides an in-memory implementation.
package accessor

import (
	"context"

	"collection-graphql/internal/model"
)

// From identifies the provenance of a connection fetch: the source
// collection and the connection being traversed. Nil for root fetches.
type From struct {
	Collection string
	Connection string
}

// Argument declares one extra filter or pagination argument an accessor
// accepts for a given connection cardinality. Only scalar argument types are
// supported by the compiler.
type Argument struct {
	Name string
	Type model.ScalarKind
}

// Accessor performs physical data retrieval. Implementations must return a
// (possibly empty) sequence of objects from Select, never nil with a nil
// error, and must honor ctx cancellation on blocking lookups.
type Accessor interface {
	// Select returns the rows of collection matching filter (composite
	// equality). parent and from are nil for root-level fetches. args carries
	// caller-supplied extra arguments as declared by Arguments.
	Select(ctx context.Context, parent map[string]interface{}, collection string, from *From, filter map[string]interface{}, args map[string]interface{}) ([]map[string]interface{}, error)

	// Arguments declares the extra arguments available on connection fields
	// of the given cardinality: typically pagination controls on 1:N, none
	// on 1:1.
	Arguments(card model.Cardinality) []Argument
}
