package filter

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		names []string
		want  string
	}{
		{name: "equality with column name", input: "a0c20s1d1o5", names: []string{"id"}, want: "id = 1"},
		{name: "date text literal", input: "a1c25s10d2016-01-03o4", want: "_1_ >= 2016-01-03"},
		{name: "is null", input: "a1o8", want: "_1_ IS NULL"},
		{name: "is not null", input: "a1o9", want: "_1_ IS NOT NULL"},
		{name: "noop under not", input: "a0c16s5dfalseo0l2", want: "NOT (_0_ = false)"},
		{name: "and", input: "a1c23s2d10o2a2o8l0", want: "(_1_ > 10 AND _2_ IS NULL)"},
		{name: "or", input: "a0c23s1d1o5a1c23s1d2o5l1", want: "(_0_ = 1 OR _1_ = 2)"},
		{name: "in", input: "a1m1007s2d11s2d12s2d15s3d100s1d5o10", want: "_1_ IN (11,12,15,100,5)"},
		{name: "operand order kept", input: "c23s1d5a1o1", want: "5 < _1_"},
		{name: "literal containing tokens", input: "a0c25s6da1o5l0o5", want: "_0_ = a1o5l0"},
		{name: "length counts bytes", input: "a0c25s2déo5", want: "_0_ = é"},
		{name: "empty literal", input: "a0c25s0do6", want: "_0_ <> "},
		{name: "like", input: "a3c25s2da%o7", want: "_3_ LIKE a%"},
		{name: "nested", input: "a0o8a1o9l1a2c23s1d3o3l0l2", want: "NOT (((_0_ IS NULL OR _1_ IS NOT NULL) AND _2_ <= 3))"},
		{name: "max index", input: "a2147483647o8", want: "_2147483647_ IS NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input)
			assert.Equal(t, tt.want, mustFormat(t, root, tt.names...))

			// the serializer writes the input back
			out, err := Serialize(root)
			require.NoError(t, err)
			assert.Equal(t, tt.input, out)
		})
	}
}

func TestParseShapes(t *testing.T) {
	root := mustParse(t, "a1m1007s2d11s1d5o10")
	op, ok := root.(*Operator)
	require.True(t, ok)
	assert.Equal(t, OpIn, op.Op())

	c, ok := op.Column()
	require.True(t, ok)
	assert.Equal(t, 1, c.Index())

	values, ok := op.Right().(*CollectionOperand)
	require.True(t, ok)
	assert.Equal(t, TypeInt4Array, values.DataType())
	assert.Equal(t, []string{"11", "5"}, values.Values())

	root = mustParse(t, "c25s3dabca4o7")
	op = root.(*Operator)
	s, ok := op.Left().(*ScalarOperand)
	require.True(t, ok, "scalar stays on the left")
	assert.Equal(t, TypeText, s.DataType())
	assert.Equal(t, "abc", s.Value())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
		pos   int
	}{
		{name: "empty", input: "", kind: ErrEmptyResult, pos: 0},
		{name: "index overflow", input: "a2147483648o8", kind: ErrNumericOverflow, pos: 11},
		{name: "length overflow", input: "a1c25s99999999999d", kind: ErrNumericOverflow, pos: 17},
		{name: "unknown operator", input: "a1o11", kind: ErrUnknownOpcode, pos: 5},
		{name: "unknown logical", input: "a1o8l3", kind: ErrUnknownOpcode, pos: 6},
		{name: "leftover", input: "a1o8a2o8", kind: ErrLeftoverStack, pos: 8},
		{name: "unknown token", input: "a1x", kind: ErrUnexpectedChar, pos: 2},
		{name: "missing digits", input: "ax", kind: ErrUnexpectedChar, pos: 1},
		{name: "truncated number", input: "a", kind: ErrUnexpectedEnd, pos: 1},
		{name: "unknown type", input: "a1c999s1d1o5", kind: ErrUnknownDataType, pos: 6},
		{name: "array type for scalar", input: "a1c1007s1d1o5", kind: ErrUnknownDataType, pos: 7},
		{name: "scalar type for collection", input: "a1m23s1d1o10", kind: ErrUnknownDataType, pos: 5},
		{name: "operator without operands", input: "o5", kind: ErrStackUnderflow, pos: 2},
		{name: "literal past end", input: "a1c23s5d12", kind: ErrUnexpectedEnd, pos: 10},
		{name: "missing size", input: "a1c23x", kind: ErrUnexpectedChar, pos: 5},
		{name: "missing data marker", input: "a1c23s1x", kind: ErrUnexpectedChar, pos: 7},
		{name: "truncated after size", input: "a1c23s1", kind: ErrUnexpectedEnd, pos: 7},
		{name: "lone operand", input: "a1", kind: ErrInvalidOperand, pos: 2},
		{name: "two columns", input: "a1a2o5", kind: ErrInvalidOperand, pos: 6},
		{name: "scalar for is null", input: "c23s1d1o8", kind: ErrInvalidOperand, pos: 9},
		{name: "and underflow", input: "a1o8l0", kind: ErrStackUnderflow, pos: 6},
		{name: "not over operand", input: "a1c23s1d1l2", kind: ErrInvalidOperand, pos: 11},
		{name: "predicate over predicate", input: "a1o8o8", kind: ErrInvalidOperand, pos: 6},
		{name: "in with scalar", input: "a1c23s1d1o10", kind: ErrInvalidOperand, pos: 12},
		{name: "equals with collection", input: "a1m1007s1d1o5", kind: ErrInvalidOperand, pos: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, root)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var syntaxErr *FilterSyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.pos, syntaxErr.Position)
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		tree := randomTree(r, 4)

		wire, err := Serialize(tree)
		require.NoError(t, err)

		parsed, err := Parse(wire)
		require.NoError(t, err, wire)

		assert.Equal(t, mustFormat(t, tree), mustFormat(t, parsed), wire)
	}
}

func TestSerializeErrors(t *testing.T) {
	_, err := Serialize(nil)
	assert.ErrorIs(t, err, ErrMalformedTree)

	pruned := And(IsNull(col(0)), IsNull(col(1))).withRight(nil)
	_, err = Serialize(pruned)
	assert.ErrorIs(t, err, ErrMalformedTree)
}
