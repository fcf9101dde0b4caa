package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField indicates a field without a usable name or type.
	ErrMalformedField = errors.New("malformed field")
	// ErrDuplicateField indicates a record schema declares the same field
	// name twice. Duplicate names are rejected rather than letting the last
	// declaration win silently.
	ErrDuplicateField = errors.New("duplicate field name")
	// ErrUnknownSchema indicates a collection references a schema name that
	// is not configured.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrBadConnection indicates a structurally invalid connection
	// declaration.
	ErrBadConnection = errors.New("malformed connection")
)

// Validate checks the configuration shape and normalizes names from map keys.
// Dangling connection destinations are not checked here; the compiler
// enforces them against its type registry.
func (c *Config) Validate() error {
	c.normalize()

	for name, schema := range c.Schemas {
		if err := validateSchema(schema); err != nil {
			return fmt.Errorf("schema %q: %w", name, err)
		}
	}

	for name, col := range c.Collections {
		if col.SchemaName == "" {
			return fmt.Errorf("collection %q: %w: no schema configured", name, ErrUnknownSchema)
		}
		if _, ok := c.Schemas[col.SchemaName]; !ok {
			return fmt.Errorf("collection %q: %w: %q", name, ErrUnknownSchema, col.SchemaName)
		}
		if err := c.validateConnections(col); err != nil {
			return fmt.Errorf("collection %q: %w", name, err)
		}
	}

	return nil
}

// normalize fills Name fields from map keys and names anonymous nested
// records after their enclosing schema and field.
func (c *Config) normalize() {
	for key, schema := range c.Schemas {
		schema.Name = key
		nameNestedRecords(key, schema.Fields)
		c.Schemas[key] = schema
	}
	for key, col := range c.Collections {
		col.Name = key
		c.Collections[key] = col
	}
}

func nameNestedRecords(prefix string, fields []Field) {
	for i := range fields {
		nameNestedType(prefix, fields[i].Name, &fields[i].Type)
	}
}

func nameNestedType(prefix, fieldName string, ft *FieldType) {
	switch ft.Kind {
	case KindRecord:
		if ft.Record != nil {
			if ft.Record.Name == "" {
				ft.Record.Name = prefix + "_" + fieldName
			}
			nameNestedRecords(ft.Record.Name, ft.Record.Fields)
		}
	case KindList:
		if ft.Elem != nil {
			nameNestedType(prefix, fieldName, ft.Elem)
		}
	}
}

func validateSchema(s Schema) error {
	if s.IsEnum() {
		if len(s.Fields) > 0 {
			return fmt.Errorf("%w: schema declares both enum values and fields", ErrMalformedField)
		}
		return nil
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field has no name", ErrMalformedField)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = struct{}{}
		if err := validateFieldType(f.Name, f.Type); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldType(fieldName string, ft FieldType) error {
	switch ft.Kind {
	case KindScalar:
		switch ft.Scalar {
		case ScalarInt, ScalarLong, ScalarString:
			return nil
		default:
			return fmt.Errorf("%w: field %q has unknown scalar kind %v", ErrMalformedField, fieldName, ft.Scalar)
		}
	case KindRecord:
		if ft.Record == nil {
			return fmt.Errorf("%w: field %q declares an empty record", ErrMalformedField, fieldName)
		}
		return validateSchema(*ft.Record)
	case KindList:
		if ft.Elem == nil {
			return fmt.Errorf("%w: field %q declares a list without an element type", ErrMalformedField, fieldName)
		}
		return validateFieldType(fieldName, *ft.Elem)
	case KindEnum:
		return nil
	default:
		return fmt.Errorf("%w: field %q has no type", ErrMalformedField, fieldName)
	}
}

func (c *Config) validateConnections(col Collection) error {
	schema := c.Schemas[col.SchemaName]
	seen := make(map[string]struct{}, len(col.Connections))
	for _, conn := range col.Connections {
		if conn.Name == "" {
			return fmt.Errorf("%w: connection has no name", ErrBadConnection)
		}
		if _, dup := seen[conn.Name]; dup {
			return fmt.Errorf("%w: duplicate connection name %q", ErrBadConnection, conn.Name)
		}
		seen[conn.Name] = struct{}{}
		if _, clash := schema.Field(conn.Name); clash {
			return fmt.Errorf("%w: connection %q collides with a schema field", ErrBadConnection, conn.Name)
		}
		if conn.Cardinality != OneToOne && conn.Cardinality != OneToMany {
			return fmt.Errorf("%w: connection %q has no cardinality", ErrBadConnection, conn.Name)
		}
		if conn.Destination == "" {
			return fmt.Errorf("%w: connection %q has no destination", ErrBadConnection, conn.Name)
		}
		if len(conn.Parts) == 0 {
			return fmt.Errorf("%w: connection %q has no key parts", ErrBadConnection, conn.Name)
		}
		for _, part := range conn.Parts {
			if part.SourceField == "" || part.DestinationField == "" {
				return fmt.Errorf("%w: connection %q has an incomplete key part", ErrBadConnection, conn.Name)
			}
			if _, ok := schema.Field(part.SourceField); !ok {
				return fmt.Errorf("%w: connection %q key field %q is not a field of schema %q",
					ErrBadConnection, conn.Name, part.SourceField, col.SchemaName)
			}
		}
	}
	return nil
}
