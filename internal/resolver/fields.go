package resolver

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"collection-graphql/internal/model"
	"collection-graphql/internal/naming"
	"collection-graphql/internal/scalars"
)

// bigIntType is shared across builds so every schema sees one BigInt
// definition.
var bigIntType = scalars.BigInt()

// tryScalarType maps a scalar kind to its GraphQL scalar, reporting false
// for unsupported kinds so callers can try another interpretation.
func tryScalarType(kind model.ScalarKind) (*graphql.Scalar, bool) {
	switch kind {
	case model.ScalarInt:
		return graphql.Int, true
	case model.ScalarLong:
		return bigIntType, true
	case model.ScalarString:
		return graphql.String, true
	default:
		return nil, false
	}
}

// scalarType is the strict form of tryScalarType: it returns the mandatory
// (non-null) scalar type, or fails naming the offending kind.
func scalarType(kind model.ScalarKind) (graphql.Output, error) {
	s, ok := tryScalarType(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScalar, kind)
	}
	return graphql.NewNonNull(s), nil
}

// convertFields converts a record schema's fields into GraphQL fields.
// Iteration order does not affect the result; field names are unique by
// validation.
func (b *Builder) convertFields(schema model.Schema) (graphql.Fields, error) {
	fields := graphql.Fields{}
	for _, f := range schema.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: schema %q has an unnamed field", model.ErrMalformedField, schema.Name)
		}
		out, err := b.compileType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields[f.Name] = &graphql.Field{Type: out}
	}
	return fields, nil
}

// filterArgs derives the nullable filter arguments for a record schema: one
// argument per scalar field, same name, optional. Non-scalar fields carry no
// filter argument.
func (b *Builder) filterArgs(schema model.Schema) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{}
	for _, f := range schema.Fields {
		if f.Type.Kind != model.KindScalar {
			continue
		}
		if s, ok := tryScalarType(f.Type.Scalar); ok {
			args[f.Name] = &graphql.ArgumentConfig{Type: s}
		}
	}
	return args
}

// compileType derives the GraphQL output type for a field type.
func (b *Builder) compileType(ft model.FieldType) (graphql.Output, error) {
	switch ft.Kind {
	case model.KindScalar:
		return scalarType(ft.Scalar)
	case model.KindRecord:
		return b.recordType(*ft.Record)
	case model.KindList:
		elem, err := b.compileType(*ft.Elem)
		if err != nil {
			return nil, err
		}
		return graphql.NewNonNull(graphql.NewList(elem)), nil
	case model.KindEnum:
		return nil, ErrEnumNotImplemented
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnrecognizedType, int(ft.Kind))
	}
}

// recordType compiles a nested record schema into an object type, memoized
// by type name. The cache entry is stored before fields are built so
// self-referencing records terminate.
func (b *Builder) recordType(schema model.Schema) (*graphql.Object, error) {
	if schema.IsEnum() {
		return nil, fmt.Errorf("%w (schema %q)", ErrEnumNotImplemented, schema.Name)
	}

	typeName := naming.TypeName(schema.Name)
	if cached, ok := b.typeCache[typeName]; ok {
		return cached, nil
	}

	obj := graphql.NewObject(graphql.ObjectConfig{
		Name:        typeName,
		Description: fmt.Sprintf("Generated from schema %s.", schema.Name),
		Fields:      graphql.Fields{},
	})
	b.typeCache[typeName] = obj

	fields, err := b.convertFields(schema)
	if err != nil {
		return nil, err
	}
	for name, field := range fields {
		obj.AddFieldConfig(name, field)
	}
	return obj, nil
}
