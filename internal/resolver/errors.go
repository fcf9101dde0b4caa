package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingConnection indicates a connection references a destination
	// collection that is not configured.
	ErrDanglingConnection = errors.New("connection destination is not a configured collection")
	// ErrEnumNotImplemented indicates a collection is bound to an enumerated
	// set schema, which the compiler does not support.
	ErrEnumNotImplemented = errors.New("enum schemas are not implemented")
	// ErrUnsupportedScalar indicates a scalar kind the type mapper cannot
	// translate.
	ErrUnsupportedScalar = errors.New("unsupported scalar kind")
	// ErrUnrecognizedType indicates a field type that is neither a record,
	// an enum, nor a supported scalar.
	ErrUnrecognizedType = errors.New("unrecognized type")
	// ErrUnsupportedArgument indicates an accessor declared an extra argument
	// with a non-scalar type.
	ErrUnsupportedArgument = errors.New("accessor argument type is not a supported scalar")
	// ErrArgumentCollision indicates an accessor extra argument shares a name
	// with a destination filter argument.
	ErrArgumentCollision = errors.New("accessor argument collides with a filter argument")
	// ErrSchemaMismatch indicates the compiled type's source schema does not
	// match the collection's configured schema.
	ErrSchemaMismatch = errors.New("compiled schema does not match configuration")
)

// CardinalityError reports a 1:1 connection that resolved to a row count
// other than one.
type CardinalityError struct {
	Collection string
	Connection string
	Got        int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("connection %s.%s: expected exactly one row, got %d", e.Collection, e.Connection, e.Got)
}
