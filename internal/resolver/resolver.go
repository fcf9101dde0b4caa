// Package resolver compiles the configured data model into an executable
// GraphQL schema. It generates an object type per collection, filter
// arguments per scalar field, and connection fields whose resolvers walk
// declared relationships by composite key matching, delegating every fetch
// to the storage accessor.
package resolver

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/model"
	"collection-graphql/internal/naming"
)

// registryEntry is one slot of the type registry. Slots for every collection
// are allocated empty before compilation so connection resolvers can capture
// the slot's object pointer regardless of build order; the compilation pass
// then fills each slot's fields in place.
type registryEntry struct {
	object     *graphql.Object
	filterArgs graphql.FieldConfigArgument
	schemaName string
}

// Builder compiles a validated model configuration into a GraphQL schema.
// It is single-use and not safe for concurrent use; the schema it produces
// is read-only and safe for concurrent execution.
type Builder struct {
	cfg      *model.Config
	acc      accessor.Accessor
	registry map[string]*registryEntry
	// typeCache memoizes nested record types by GraphQL type name so a
	// schema shared between fields compiles to one object type.
	typeCache map[string]*graphql.Object
}

// NewBuilder creates a Builder for the given configuration and accessor.
func NewBuilder(cfg *model.Config, acc accessor.Accessor) *Builder {
	return &Builder{
		cfg:       cfg,
		acc:       acc,
		registry:  make(map[string]*registryEntry),
		typeCache: make(map[string]*graphql.Object),
	}
}

// Build validates the configuration, compiles every collection eagerly, and
// assembles the root query type. Any error is fatal: no partial schema is
// returned.
func (b *Builder) Build() (graphql.Schema, error) {
	if err := b.cfg.Validate(); err != nil {
		return graphql.Schema{}, err
	}

	names := b.cfg.CollectionNames()

	// Allocate every collection's type slot, plus its scalar filter
	// arguments, before any fields are built. Filter arguments depend only
	// on the schema's own scalar fields, so forward references between
	// collections never see an unfilled argument set.
	for _, name := range names {
		col := b.cfg.Collections[name]
		schema := b.cfg.Schemas[col.SchemaName]
		b.registry[name] = &registryEntry{
			object: graphql.NewObject(graphql.ObjectConfig{
				Name:        naming.TypeName(name),
				Description: fmt.Sprintf("Generated from schema %s.", schema.Name),
				Fields:      graphql.Fields{},
			}),
			filterArgs: b.filterArgs(schema),
			schemaName: schema.Name,
		}
	}

	// Fill each slot. Connection fields resolve their destination from the
	// registry, so mutually referencing collections compile in any order.
	for _, name := range names {
		schemaName, err := b.compileCollection(name)
		if err != nil {
			return graphql.Schema{}, err
		}
		if schemaName != b.cfg.Collections[name].SchemaName {
			return graphql.Schema{}, fmt.Errorf("%w: collection %q compiled from %q, configured with %q",
				ErrSchemaMismatch, name, schemaName, b.cfg.Collections[name].SchemaName)
		}
	}

	queryFields := graphql.Fields{}
	for _, name := range names {
		entry := b.registry[name]
		queryFields[name] = &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(entry.object)),
			Args:        entry.filterArgs,
			Description: fmt.Sprintf("Fetch %s rows, filtered by any scalar field.", name),
			Resolve:     (&rootResolver{collection: name, acc: b.acc}).resolve,
		}
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
	})
}

// compileCollection fills the collection's registry slot: scalar and nested
// fields from its schema, then one field per declared connection. Returns
// the source schema name for the configuration consistency check.
func (b *Builder) compileCollection(name string) (string, error) {
	col := b.cfg.Collections[name]
	schema := b.cfg.Schemas[col.SchemaName]
	entry := b.registry[name]

	if schema.IsEnum() {
		return "", fmt.Errorf("collection %q: %w (schema %q)", name, ErrEnumNotImplemented, schema.Name)
	}

	fields, err := b.convertFields(schema)
	if err != nil {
		return "", fmt.Errorf("collection %q: %w", name, err)
	}

	for _, conn := range col.Connections {
		field, err := b.connectionField(name, conn)
		if err != nil {
			return "", err
		}
		fields[conn.Name] = field
	}

	for fieldName, field := range fields {
		entry.object.AddFieldConfig(fieldName, field)
	}

	return schema.Name, nil
}

// rootResolver fetches a collection's rows at the query root. The filter is
// exactly the caller's arguments; there is no parent and no provenance.
type rootResolver struct {
	collection string
	acc        accessor.Accessor
}

func (rr *rootResolver) resolve(p graphql.ResolveParams) (interface{}, error) {
	rows, err := rr.acc.Select(p.Context, nil, rr.collection, nil, p.Args, nil)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", rr.collection, err)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}
