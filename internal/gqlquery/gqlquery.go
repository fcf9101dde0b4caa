// Package gqlquery compiles GraphQL query text against a schema into a
// reusable handle. Parsing and validation happen once at compile time;
// the handle can then execute repeatedly with different variables.
package gqlquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
)

var (
	// ErrParse indicates the query text is not a syntactically valid
	// GraphQL document.
	ErrParse = errors.New("query parse failed")
	// ErrMultipleOperations indicates the document does not contain
	// exactly one operation definition.
	ErrMultipleOperations = errors.New("document must contain exactly one operation")
	// ErrMissingOperationName indicates the operation is anonymous.
	// Names are required so logs and traces can identify queries.
	ErrMissingOperationName = errors.New("operation must be named")
	// ErrUnsupportedOperation indicates a mutation or subscription.
	// The generated schema is read-only.
	ErrUnsupportedOperation = errors.New("only query operations are supported")
	// ErrInvalidQuery indicates the document failed validation against
	// the schema.
	ErrInvalidQuery = errors.New("query validation failed")
)

// Handle is a compiled query bound to a schema. It is immutable and safe
// for concurrent Execute calls.
type Handle struct {
	schema        graphql.Schema
	doc           *ast.Document
	operationName string
}

// Compile parses and validates query text against the schema. The document
// must hold exactly one operation, it must be a query, and it must be named.
func Compile(schema graphql.Schema, query string) (*Handle, error) {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{
			Body: []byte(query),
			Name: "query",
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var op *ast.OperationDefinition
	operations := 0
	for _, def := range doc.Definitions {
		if od, ok := def.(*ast.OperationDefinition); ok {
			operations++
			op = od
		}
	}
	if operations != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrMultipleOperations, operations)
	}
	if op.Operation != ast.OperationTypeQuery {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedOperation, op.Operation)
	}
	if op.Name == nil || op.Name.Value == "" {
		return nil, ErrMissingOperationName
	}

	validation := graphql.ValidateDocument(&schema, doc, nil)
	if !validation.IsValid {
		errs := make([]error, len(validation.Errors))
		for i, ve := range validation.Errors {
			errs[i] = ve
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, errors.Join(errs...))
	}

	return &Handle{
		schema:        schema,
		doc:           doc,
		operationName: op.Name.Value,
	}, nil
}

// OperationName returns the name of the compiled operation.
func (h *Handle) OperationName() string {
	return h.operationName
}

// Execute runs the compiled query with the given variables. Each call is
// independent; execution errors are reported in the result, not returned.
func (h *Handle) Execute(ctx context.Context, variables map[string]interface{}) *graphql.Result {
	return graphql.Execute(graphql.ExecuteParams{
		Schema:        h.schema,
		Root:          map[string]interface{}{},
		AST:           h.doc,
		OperationName: h.operationName,
		Args:          variables,
		Context:       ctx,
	})
}
