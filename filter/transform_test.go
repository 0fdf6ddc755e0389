package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInExpansion(t *testing.T) {
	root := mustParse(t, "a1m1007s2d11s2d12s2d15s3d100s1d5o10")

	out, err := Traverse(root, InExpansion())
	require.NoError(t, err)
	assert.Equal(t, "((((_1_ = 11 OR _1_ = 12) OR _1_ = 15) OR _1_ = 100) OR _1_ = 5)", mustFormat(t, out))

	// the expanded literals carry the element type
	first := out.(*Operator)
	for first.Op() == OpOr {
		first = first.Left().(*Operator)
	}
	s, ok := first.Scalar()
	require.True(t, ok)
	assert.Equal(t, TypeInteger, s.DataType())
}

func TestInExpansionSingleValue(t *testing.T) {
	out, err := Traverse(In(col(2), list(TypeTextArray, "x")), InExpansion())
	require.NoError(t, err)
	assert.Equal(t, "_2_ = x", mustFormat(t, out))
}

func TestInExpansionNested(t *testing.T) {
	root := Not(And(IsNull(col(0)), In(col(1), list(TypeTextArray, "a", "b"))))

	out, err := Traverse(root, InExpansion())
	require.NoError(t, err)
	assert.Equal(t, "NOT ((_0_ IS NULL AND (_1_ = a OR _1_ = b)))", mustFormat(t, out))
	assert.Equal(t, "NOT ((_0_ IS NULL AND _1_ IN (a,b)))", mustFormat(t, root))
}

func TestInExpansionThenPrune(t *testing.T) {
	root := And(In(col(1), list(TypeTextArray, "a", "b")), IsNull(col(0)))
	expanded, err := Traverse(root, InExpansion())
	require.NoError(t, err)

	withOr := SupportedOperatorPruner(NewOperationSet(OpEquals, OpIsNull, OpAnd, OpOr))
	out, err := Traverse(expanded, withOr)
	require.NoError(t, err)
	assert.Equal(t, "((_1_ = a OR _1_ = b) AND _0_ IS NULL)", mustFormat(t, out))

	// without OR the expansion is dropped as a whole
	withoutOr := SupportedOperatorPruner(NewOperationSet(OpEquals, OpIsNull, OpAnd))
	out, err = Traverse(expanded, withoutOr)
	require.NoError(t, err)
	assert.Equal(t, "_0_ IS NULL", mustFormat(t, out))
}
