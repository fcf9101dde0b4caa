package resolver

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/model"
)

// connectionField builds the nested field a connection adds to its source
// type: the destination type (wrapped in a mandatory list for 1:N), the
// destination's filter arguments plus the accessor's extra arguments for the
// cardinality, and a resolver bound to this connection.
func (b *Builder) connectionField(source string, conn model.Connection) (*graphql.Field, error) {
	dest, ok := b.registry[conn.Destination]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s -> %q", ErrDanglingConnection, source, conn.Name, conn.Destination)
	}

	var out graphql.Output = dest.object
	if conn.Cardinality == model.OneToMany {
		out = graphql.NewNonNull(graphql.NewList(dest.object))
	}

	args := graphql.FieldConfigArgument{}
	for name, arg := range dest.filterArgs {
		args[name] = arg
	}
	extraNames := make(map[string]struct{})
	for _, extra := range b.acc.Arguments(conn.Cardinality) {
		if _, exists := args[extra.Name]; exists {
			return nil, fmt.Errorf("%w: %q on connection %s.%s", ErrArgumentCollision, extra.Name, source, conn.Name)
		}
		s, ok := tryScalarType(extra.Type)
		if !ok {
			return nil, fmt.Errorf("%w: accessor argument %q (%v) on connection %s.%s",
				ErrUnsupportedArgument, extra.Name, extra.Type, source, conn.Name)
		}
		args[extra.Name] = &graphql.ArgumentConfig{Type: s}
		extraNames[extra.Name] = struct{}{}
	}

	return &graphql.Field{
		Type:        out,
		Args:        args,
		Description: fmt.Sprintf("%s connection to %s.", conn.Cardinality, conn.Destination),
		Resolve: (&connectionResolver{
			source:    source,
			conn:      conn,
			acc:       b.acc,
			extraArgs: extraNames,
		}).resolve,
	}, nil
}

// connectionResolver resolves one declared connection. It holds an immutable
// snapshot of the connection definition and the accessor handle; no state is
// shared between executions.
type connectionResolver struct {
	source string
	conn   model.Connection
	acc    accessor.Accessor
	// extraArgs names the accessor-declared arguments; they are forwarded
	// as-is while every other argument filters the destination.
	extraArgs map[string]struct{}
}

// resolve performs the composite-key equality join for one parent object:
// filter[destination_field] = parent[source_field] for every key part, one
// accessor call per parent, cardinality enforced on the result. Caller
// arguments filter the destination too, except the accessor's own arguments
// which pass through unfiltered; key parts win over a caller filter on the
// same field.
func (cr *connectionResolver) resolve(p graphql.ResolveParams) (interface{}, error) {
	parent, ok := p.Source.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("connection %s.%s: parent is %T, expected an object", cr.source, cr.conn.Name, p.Source)
	}

	filter := make(map[string]interface{}, len(p.Args)+len(cr.conn.Parts))
	var passthrough map[string]interface{}
	for name, value := range p.Args {
		if _, extra := cr.extraArgs[name]; extra {
			if passthrough == nil {
				passthrough = make(map[string]interface{})
			}
			passthrough[name] = value
			continue
		}
		filter[name] = value
	}
	for _, part := range cr.conn.Parts {
		value, ok := parent[part.SourceField]
		if !ok {
			// The parent must carry its own key fields as result data; a
			// missing one is a logic error, not an empty join.
			return nil, fmt.Errorf("connection %s.%s: parent is missing key field %q",
				cr.source, cr.conn.Name, part.SourceField)
		}
		filter[part.DestinationField] = value
	}

	from := &accessor.From{Collection: cr.source, Connection: cr.conn.Name}
	rows, err := cr.acc.Select(p.Context, parent, cr.conn.Destination, from, filter, passthrough)
	if err != nil {
		return nil, fmt.Errorf("connection %s.%s: %w", cr.source, cr.conn.Name, err)
	}

	if cr.conn.Cardinality == model.OneToOne {
		if len(rows) != 1 {
			return nil, &CardinalityError{Collection: cr.source, Connection: cr.conn.Name, Got: len(rows)}
		}
		return rows[0], nil
	}

	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}
