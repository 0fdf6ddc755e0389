package filter

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

var testColumns = Columns{
	{Name: "id", Type: TypeInteger},
	{Name: "name", Type: TypeText},
	{Name: "price", Type: TypeFloat8},
	{Name: "day", Type: TypeDate, Partition: true},
	{Name: "active", Type: TypeBoolean},
	{Name: "secret", Type: TypeText, Excluded: true},
}

func mustParse(t *testing.T, input string) Node {
	t.Helper()
	n, err := Parse(input)
	require.NoError(t, err, input)
	return n
}

func mustFormat(t *testing.T, n Node, names ...string) string {
	t.Helper()
	s, err := Format(n, names...)
	require.NoError(t, err)
	return s
}

func col(i uint32) *ColumnIndexOperand { return NewColumnIndex(i) }

func lit(dt DataType, v string) *ScalarOperand {
	s, err := NewScalar(dt, v)
	if err != nil {
		panic(err)
	}
	return s
}

func list(dt DataType, values ...string) *CollectionOperand {
	c, err := NewCollection(dt, values)
	if err != nil {
		panic(err)
	}
	return c
}

// randomValue returns a literal for a column of type dt.
func randomValue(r *rand.Rand, dt DataType) string {
	switch dt {
	case TypeInteger:
		return strconv.Itoa(r.IntN(20) - 5)
	case TypeFloat8:
		return fmt.Sprintf("%.1f", r.Float64()*10)
	case TypeDate:
		return fmt.Sprintf("2024-01-%02d", r.IntN(9)+1)
	case TypeBoolean:
		return strconv.FormatBool(r.IntN(2) == 0)
	default:
		words := []string{"a", "b", "ab", "s1d2", "x'y", "o5l0", ""}
		return words[r.IntN(len(words))]
	}
}

// randomPredicate returns a leaf predicate over testColumns.
func randomPredicate(r *rand.Rand) *Operator {
	idx := r.IntN(len(testColumns))
	c := testColumns[idx]
	ref := col(uint32(idx))

	switch r.IntN(8) {
	case 0:
		return IsNull(ref)
	case 1:
		return IsNotNull(ref)
	case 2:
		arr, _ := c.Type.ArrayOf()
		n := r.IntN(3) + 1
		values := make([]string, n)
		for i := range values {
			values[i] = randomValue(r, c.Type)
		}
		return In(ref, list(arr, values...))
	case 3:
		if c.Type.IsString() {
			patterns := []string{"a%", "%b", "_", "a_", "%"}
			return Compare(OpLike, ref, lit(c.Type, patterns[r.IntN(len(patterns))]))
		}
	}

	ops := []Operation{OpLessThan, OpGreaterThan, OpLessThanOrEqual, OpGreaterThanOrEqual, OpEquals, OpNotEquals}
	op := ops[r.IntN(len(ops))]
	if c.Type == TypeBoolean && r.IntN(2) == 0 {
		op = OpNoop
	}
	value := lit(c.Type, randomValue(r, c.Type))
	if r.IntN(4) == 0 {
		// column on the right
		return mustOperator(op, value, ref)
	}
	return Compare(op, ref, value)
}

// randomTree returns a random well-formed tree of at most depth logical
// levels.
func randomTree(r *rand.Rand, depth int) *Operator {
	if depth == 0 || r.IntN(4) == 0 {
		return randomPredicate(r)
	}
	switch r.IntN(5) {
	case 0:
		return Not(randomTree(r, depth-1))
	case 1, 2:
		return Or(randomTree(r, depth-1), randomTree(r, depth-1))
	default:
		return And(randomTree(r, depth-1), randomTree(r, depth-1))
	}
}
