package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Schemas: map[string]Schema{
			"user_schema": {Fields: []Field{
				{Name: "user_str", Type: ScalarType(ScalarString)},
				{Name: "user_num", Type: ScalarType(ScalarInt)},
			}},
			"order_schema": {Fields: []Field{
				{Name: "order_str", Type: ScalarType(ScalarString)},
				{Name: "user_str", Type: ScalarType(ScalarString)},
				{Name: "user_num", Type: ScalarType(ScalarInt)},
			}},
		},
		Collections: map[string]Collection{
			"user_collection": {SchemaName: "user_schema", Connections: []Connection{
				{
					Name:        "order_connection",
					Cardinality: OneToMany,
					Destination: "order_collection",
					Parts: []KeyPart{
						{SourceField: "user_str", DestinationField: "user_str"},
						{SourceField: "user_num", DestinationField: "user_num"},
					},
				},
			}},
			"order_collection": {SchemaName: "order_schema"},
		},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	// Names are normalized from map keys.
	assert.Equal(t, "user_schema", cfg.Schemas["user_schema"].Name)
	assert.Equal(t, "user_collection", cfg.Collections["user_collection"].Name)
}

func TestValidate_DuplicateField(t *testing.T) {
	cfg := validConfig()
	s := cfg.Schemas["user_schema"]
	s.Fields = append(s.Fields, Field{Name: "user_str", Type: ScalarType(ScalarInt)})
	cfg.Schemas["user_schema"] = s

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrDuplicateField)
}

func TestValidate_UnnamedField(t *testing.T) {
	cfg := validConfig()
	s := cfg.Schemas["user_schema"]
	s.Fields = append(s.Fields, Field{Type: ScalarType(ScalarInt)})
	cfg.Schemas["user_schema"] = s

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrMalformedField)
}

func TestValidate_UnknownSchema(t *testing.T) {
	cfg := validConfig()
	cfg.Collections["ghost"] = Collection{SchemaName: "missing_schema"}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrUnknownSchema)
}

func TestValidate_ConnectionShape(t *testing.T) {
	tests := []struct {
		name  string
		mutate func(*Connection)
	}{
		{"no name", func(c *Connection) { c.Name = "" }},
		{"no cardinality", func(c *Connection) { c.Cardinality = 0 }},
		{"no destination", func(c *Connection) { c.Destination = "" }},
		{"no parts", func(c *Connection) { c.Parts = nil }},
		{"incomplete part", func(c *Connection) { c.Parts[0].DestinationField = "" }},
		{"unknown source field", func(c *Connection) { c.Parts[0].SourceField = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			col := cfg.Collections["user_collection"]
			tt.mutate(&col.Connections[0])
			cfg.Collections["user_collection"] = col
			require.ErrorIs(t, cfg.Validate(), ErrBadConnection)
		})
	}
}

func TestValidate_ConnectionNameCollidesWithField(t *testing.T) {
	cfg := validConfig()
	col := cfg.Collections["user_collection"]
	col.Connections[0].Name = "user_str"
	cfg.Collections["user_collection"] = col

	require.ErrorIs(t, cfg.Validate(), ErrBadConnection)
}

func TestValidate_NestedRecordNaming(t *testing.T) {
	nested := Schema{Fields: []Field{{Name: "street", Type: ScalarType(ScalarString)}}}
	cfg := &Config{
		Schemas: map[string]Schema{
			"user_schema": {Fields: []Field{
				{Name: "user_str", Type: ScalarType(ScalarString)},
				{Name: "address", Type: RecordType(&nested)},
			}},
		},
		Collections: map[string]Collection{
			"user_collection": {SchemaName: "user_schema"},
		},
	}
	require.NoError(t, cfg.Validate())

	field, ok := cfg.Schemas["user_schema"].Field("address")
	require.True(t, ok)
	assert.Equal(t, "user_schema_address", field.Type.Record.Name)
}

func TestParseCardinality(t *testing.T) {
	card, err := ParseCardinality("1:1")
	require.NoError(t, err)
	assert.Equal(t, OneToOne, card)

	card, err = ParseCardinality("1:N")
	require.NoError(t, err)
	assert.Equal(t, OneToMany, card)

	_, err = ParseCardinality("N:N")
	require.ErrorIs(t, err, ErrBadConnection)
}
