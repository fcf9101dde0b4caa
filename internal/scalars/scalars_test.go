package scalars

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
)

func TestBigIntSerialize(t *testing.T) {
	bigInt := BigInt()

	assert.Equal(t, "42", bigInt.Serialize(42))
	assert.Equal(t, "9007199254740993", bigInt.Serialize(int64(9007199254740993)))
	assert.Equal(t, "42", bigInt.Serialize(uint64(42)))
	assert.Equal(t, "42", bigInt.Serialize("42"))
	assert.Equal(t, "42", bigInt.Serialize([]byte("42")))
	assert.Equal(t, "42", bigInt.Serialize(float64(42)))

	assert.Nil(t, bigInt.Serialize(42.5))
	assert.Nil(t, bigInt.Serialize("not a number"))
	assert.Nil(t, bigInt.Serialize(struct{}{}))
}

func TestBigIntParseValue(t *testing.T) {
	bigInt := BigInt()

	assert.Equal(t, int64(42), bigInt.ParseValue(42))
	assert.Equal(t, int64(42), bigInt.ParseValue(int64(42)))
	assert.Equal(t, int64(42), bigInt.ParseValue("42"))
	assert.Equal(t, int64(42), bigInt.ParseValue(float64(42)))

	assert.Nil(t, bigInt.ParseValue(42.5))
	assert.Nil(t, bigInt.ParseValue("nope"))
}

func TestBigIntParseLiteral(t *testing.T) {
	bigInt := BigInt()

	assert.Equal(t, int64(42), bigInt.ParseLiteral(&ast.IntValue{Value: "42"}))
	assert.Equal(t, int64(42), bigInt.ParseLiteral(&ast.StringValue{Value: "42"}))
	assert.Nil(t, bigInt.ParseLiteral(&ast.FloatValue{Value: "42.5"}))
	assert.Nil(t, bigInt.ParseLiteral(&ast.StringValue{Value: "nope"}))
}
