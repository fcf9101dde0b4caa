package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a model configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("model file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML model document:
//
//	schemas:
//	  user_schema:
//	    fields:
//	      - name: user_str
//	        type: string
//	      - name: user_num
//	        type: int
//	collections:
//	  user_collection:
//	    schema: user_schema
//	    connections:
//	      - name: order_connection
//	        type: "1:N"
//	        destination: order_collection
//	        parts:
//	          - source: user_str
//	            destination: order_str
func Parse(data []byte) (*Config, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid model YAML: %w", err)
	}

	cfg := &Config{
		Schemas:     make(map[string]Schema, len(doc.Schemas)),
		Collections: make(map[string]Collection, len(doc.Collections)),
	}
	for name, ys := range doc.Schemas {
		cfg.Schemas[name] = ys.toSchema(name)
	}
	for name, yc := range doc.Collections {
		col, err := yc.toCollection(name)
		if err != nil {
			return nil, err
		}
		cfg.Collections[name] = col
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type yamlDocument struct {
	Schemas     map[string]yamlSchema     `yaml:"schemas"`
	Collections map[string]yamlCollection `yaml:"collections"`
}

type yamlSchema struct {
	Fields []yamlField `yaml:"fields"`
	Enum   []string    `yaml:"enum"`
}

func (s yamlSchema) toSchema(name string) Schema {
	schema := Schema{Name: name, Enum: s.Enum}
	for _, f := range s.Fields {
		schema.Fields = append(schema.Fields, Field{Name: f.Name, Type: f.Type.ft})
	}
	return schema
}

type yamlField struct {
	Name string   `yaml:"name"`
	Type yamlType `yaml:"type"`
}

// yamlType decodes the field type union. A scalar kind is written as a bare
// string; compound types use a single-key mapping (list, record, enum).
type yamlType struct {
	ft FieldType
}

func (t *yamlType) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "int":
			t.ft = ScalarType(ScalarInt)
		case "long":
			t.ft = ScalarType(ScalarLong)
		case "string":
			t.ft = ScalarType(ScalarString)
		default:
			return fmt.Errorf("%w: unknown type %q", ErrMalformedField, node.Value)
		}
		return nil
	case yaml.MappingNode:
		var compound struct {
			List   *yamlType   `yaml:"list"`
			Record *yamlSchema `yaml:"record"`
			Enum   []string    `yaml:"enum"`
		}
		if err := node.Decode(&compound); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedField, err)
		}
		switch {
		case compound.List != nil:
			t.ft = FieldType{Kind: KindList, Elem: &compound.List.ft}
		case compound.Record != nil:
			nested := compound.Record.toSchema("")
			t.ft = FieldType{Kind: KindRecord, Record: &nested}
		case len(compound.Enum) > 0:
			t.ft = FieldType{Kind: KindEnum, Enum: compound.Enum}
		default:
			return fmt.Errorf("%w: type mapping must declare list, record, or enum", ErrMalformedField)
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected YAML node for field type", ErrMalformedField)
	}
}

type yamlCollection struct {
	Schema      string           `yaml:"schema"`
	Connections []yamlConnection `yaml:"connections"`
}

func (c yamlCollection) toCollection(name string) (Collection, error) {
	col := Collection{Name: name, SchemaName: c.Schema}
	for _, yc := range c.Connections {
		conn, err := yc.toConnection()
		if err != nil {
			return Collection{}, fmt.Errorf("collection %q: %w", name, err)
		}
		col.Connections = append(col.Connections, conn)
	}
	return col, nil
}

type yamlConnection struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	Destination string        `yaml:"destination"`
	Parts       []yamlKeyPart `yaml:"parts"`
}

type yamlKeyPart struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

func (c yamlConnection) toConnection() (Connection, error) {
	card, err := ParseCardinality(c.Type)
	if err != nil {
		return Connection{}, fmt.Errorf("connection %q: %w", c.Name, err)
	}
	conn := Connection{Name: c.Name, Cardinality: card, Destination: c.Destination}
	for _, p := range c.Parts {
		conn.Parts = append(conn.Parts, KeyPart{SourceField: p.Source, DestinationField: p.Destination})
	}
	return conn, nil
}
