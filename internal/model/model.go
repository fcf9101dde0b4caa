// Package model defines the declarative data model the engine compiles:
// record schemas, named collections, and the keyed connections between them.
// A Config is supplied once at construction time and is immutable after
// validation.
package model

import (
	"fmt"
	"sort"
)

// ScalarKind identifies a supported primitive field type.
type ScalarKind int

const (
	ScalarInt ScalarKind = iota + 1
	ScalarLong
	ScalarString
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarInt:
		return "int"
	case ScalarLong:
		return "long"
	case ScalarString:
		return "string"
	default:
		return fmt.Sprintf("ScalarKind(%d)", int(k))
	}
}

// TypeKind discriminates the branches of FieldType.
type TypeKind int

const (
	KindScalar TypeKind = iota + 1
	KindRecord
	KindList
	KindEnum
)

// FieldType is a closed union over the shapes a field can take. Exactly one
// branch is populated for the declared Kind, fixed when the configuration is
// loaded and never re-inspected ad hoc.
type FieldType struct {
	Kind   TypeKind
	Scalar ScalarKind // KindScalar
	Record *Schema    // KindRecord: nested record
	Elem   *FieldType // KindList: element type
	Enum   []string   // KindEnum: declared values (unimplemented downstream)
}

// ScalarType returns a scalar FieldType of the given kind.
func ScalarType(kind ScalarKind) FieldType {
	return FieldType{Kind: KindScalar, Scalar: kind}
}

// RecordType returns a FieldType for a nested record.
func RecordType(s *Schema) FieldType {
	return FieldType{Kind: KindRecord, Record: s}
}

// ListType returns a FieldType for a list of elem.
func ListType(elem FieldType) FieldType {
	return FieldType{Kind: KindList, Elem: &elem}
}

// Field is one named field of a record schema.
type Field struct {
	Name string
	Type FieldType
}

// Schema describes one entity's data shape: an ordered list of named fields,
// or an enumerated value set (Enum non-empty), which the compiler rejects.
type Schema struct {
	Name   string
	Fields []Field
	Enum   []string
}

// Field returns the named field, if present.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsEnum reports whether the schema declares an enumerated value set.
func (s Schema) IsEnum() bool {
	return len(s.Enum) > 0
}

// Cardinality is the declared cardinality of a connection.
type Cardinality int

const (
	OneToOne Cardinality = iota + 1
	OneToMany
)

func (c Cardinality) String() string {
	switch c {
	case OneToOne:
		return "1:1"
	case OneToMany:
		return "1:N"
	default:
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
}

// ParseCardinality parses the configuration form of a cardinality.
func ParseCardinality(s string) (Cardinality, error) {
	switch s {
	case "1:1":
		return OneToOne, nil
	case "1:N", "1:n":
		return OneToMany, nil
	default:
		return 0, fmt.Errorf("%w: cardinality %q (want \"1:1\" or \"1:N\")", ErrBadConnection, s)
	}
}

// KeyPart is one column pair of a connection's composite equality key.
type KeyPart struct {
	SourceField      string
	DestinationField string
}

// Connection declares a directional relationship from the collection it is
// defined on to a destination collection, joined on an ordered composite key.
type Connection struct {
	Name        string
	Cardinality Cardinality
	Destination string
	Parts       []KeyPart
}

// Collection is a named, queryable entity bound to one schema. Its name
// becomes both the root query field name and the graph type name.
type Collection struct {
	Name        string
	SchemaName  string
	Connections []Connection
}

// Config is the complete data model supplied at engine construction.
type Config struct {
	Schemas     map[string]Schema
	Collections map[string]Collection
}

// CollectionNames returns the configured collection names in sorted order.
func (c *Config) CollectionNames() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
