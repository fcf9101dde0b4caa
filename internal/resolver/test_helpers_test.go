package resolver

import (
	"context"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/model"
)

type selectCall struct {
	parent     map[string]interface{}
	collection string
	from       *accessor.From
	filter     map[string]interface{}
	args       map[string]interface{}
}

// fakeAccessor serves canned rows per collection and records every Select
// call for assertions.
type fakeAccessor struct {
	responses map[string][]map[string]interface{}
	extraArgs map[model.Cardinality][]accessor.Argument
	err       error
	calls     []selectCall
}

func (f *fakeAccessor) Select(_ context.Context, parent map[string]interface{}, collection string, from *accessor.From, filter map[string]interface{}, args map[string]interface{}) ([]map[string]interface{}, error) {
	f.calls = append(f.calls, selectCall{
		parent:     parent,
		collection: collection,
		from:       from,
		filter:     filter,
		args:       args,
	})
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[collection], nil
}

func (f *fakeAccessor) Arguments(card model.Cardinality) []accessor.Argument {
	return f.extraArgs[card]
}

func userOrderConfig() *model.Config {
	return &model.Config{
		Schemas: map[string]model.Schema{
			"user_schema": {Fields: []model.Field{
				{Name: "user_str", Type: model.ScalarType(model.ScalarString)},
				{Name: "user_num", Type: model.ScalarType(model.ScalarInt)},
			}},
			"order_schema": {Fields: []model.Field{
				{Name: "order_str", Type: model.ScalarType(model.ScalarString)},
				{Name: "user_str", Type: model.ScalarType(model.ScalarString)},
				{Name: "user_num", Type: model.ScalarType(model.ScalarInt)},
			}},
		},
		Collections: map[string]model.Collection{
			"user_collection": {SchemaName: "user_schema", Connections: []model.Connection{
				{
					Name:        "order_connection",
					Cardinality: model.OneToMany,
					Destination: "order_collection",
					Parts: []model.KeyPart{
						{SourceField: "user_str", DestinationField: "user_str"},
						{SourceField: "user_num", DestinationField: "user_num"},
					},
				},
			}},
			"order_collection": {SchemaName: "order_schema"},
		},
	}
}
