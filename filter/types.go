package filter

import (
	"fmt"
	"strconv"
)

// Node is one of *Operator, *ColumnIndexOperand, *ScalarOperand or
// *CollectionOperand. Use a type switch to access the variant.
type Node interface {
	// Left returns the left child, or nil for operands.
	Left() Node

	// Right returns the right child, or nil for operands and unary operators.
	Right() Node

	// nodeMarker is a marker method to prevent external implementation.
	nodeMarker()
}

// Operator is a predicate or logical combinator. The two children are
// immutable once the node is built; passes build new operators instead of
// rewriting existing ones.
type Operator struct {
	op    Operation
	left  Node
	right Node
}

// Op returns the operation of the node.
func (o *Operator) Op() Operation { return o.op }

// Left returns the left child.
func (o *Operator) Left() Node { return o.left }

// Right returns the right child, nil for unary operators.
func (o *Operator) Right() Node { return o.right }

func (o *Operator) nodeMarker() {}

// ChildCount returns the number of present children.
func (o *Operator) ChildCount() int {
	n := 0
	if o.left != nil {
		n++
	}
	if o.right != nil {
		n++
	}
	return n
}

// Column returns the column operand of a predicate, on either side.
func (o *Operator) Column() (*ColumnIndexOperand, bool) {
	if c, ok := o.left.(*ColumnIndexOperand); ok {
		return c, true
	}
	if c, ok := o.right.(*ColumnIndexOperand); ok {
		return c, true
	}
	return nil, false
}

// Value returns the non-column operand of a binary predicate.
func (o *Operator) Value() (Node, bool) {
	if o.op.IsLogical() || o.op.Arity() != 2 {
		return nil, false
	}
	if _, ok := o.left.(*ColumnIndexOperand); ok {
		return o.right, o.right != nil
	}
	return o.left, o.left != nil
}

// Scalar returns the scalar operand of a comparison.
func (o *Operator) Scalar() (*ScalarOperand, bool) {
	v, ok := o.Value()
	if !ok {
		return nil, false
	}
	s, ok := v.(*ScalarOperand)
	return s, ok
}

// Normalize returns the predicate with the column operand on the left. A
// comparison written as `value OP column` is rewritten with the mirrored
// operation. The second result is false when the predicate cannot be
// rewritten (LIKE with the pattern on the left).
func (o *Operator) Normalize() (*Operator, bool) {
	if o.op.IsLogical() {
		return o, true
	}
	if _, ok := o.left.(*ColumnIndexOperand); ok {
		return o, true
	}
	mirror, ok := o.op.Mirror()
	if !ok {
		return o, false
	}
	return &Operator{op: mirror, left: o.right, right: o.left}, true
}

// withLeft returns o with its left child replaced. The receiver is returned
// as is when the child is unchanged.
func (o *Operator) withLeft(left Node) *Operator {
	if o.left == left {
		return o
	}
	return &Operator{op: o.op, left: left, right: o.right}
}

// withRight returns o with its right child replaced.
func (o *Operator) withRight(right Node) *Operator {
	if o.right == right {
		return o
	}
	return &Operator{op: o.op, left: o.left, right: right}
}

// ColumnIndexOperand references a column of the consuming query by ordinal.
type ColumnIndexOperand struct {
	index uint32
}

// NewColumnIndex returns a column operand for the zero-based ordinal index.
func NewColumnIndex(index uint32) *ColumnIndexOperand {
	return &ColumnIndexOperand{index: index}
}

// Index returns the column ordinal.
func (c *ColumnIndexOperand) Index() int { return int(c.index) }

func (c *ColumnIndexOperand) Left() Node  { return nil }
func (c *ColumnIndexOperand) Right() Node { return nil }
func (c *ColumnIndexOperand) nodeMarker() {}

func (c *ColumnIndexOperand) String() string {
	return "_" + strconv.FormatUint(uint64(c.index), 10) + "_"
}

// ScalarOperand is a literal carried as text and interpreted per its type.
type ScalarOperand struct {
	dataType DataType
	value    string
}

// NewScalar returns a scalar literal. The type must be a recognized scalar type.
func NewScalar(dataType DataType, value string) (*ScalarOperand, error) {
	if !dataType.IsValid() || dataType.IsArray() {
		return nil, &TreeShapeError{Msg: fmt.Sprintf("%s is not a scalar type", dataType)}
	}
	return &ScalarOperand{dataType: dataType, value: value}, nil
}

// DataType returns the literal type.
func (s *ScalarOperand) DataType() DataType { return s.dataType }

// Value returns the literal text.
func (s *ScalarOperand) Value() string { return s.value }

func (s *ScalarOperand) Left() Node  { return nil }
func (s *ScalarOperand) Right() Node { return nil }
func (s *ScalarOperand) nodeMarker() {}

// CollectionOperand is the ordered value list of an IN predicate.
type CollectionOperand struct {
	dataType DataType
	values   []string
}

// NewCollection returns a collection literal. The type must be an array type
// and at least one value is required.
func NewCollection(dataType DataType, values []string) (*CollectionOperand, error) {
	if !dataType.IsArray() {
		return nil, &TreeShapeError{Msg: fmt.Sprintf("%s is not a collection type", dataType)}
	}
	if len(values) == 0 {
		return nil, &TreeShapeError{Msg: "collection requires at least one value"}
	}
	return &CollectionOperand{dataType: dataType, values: append([]string(nil), values...)}, nil
}

// DataType returns the array type of the collection.
func (c *CollectionOperand) DataType() DataType { return c.dataType }

// Len returns the number of values.
func (c *CollectionOperand) Len() int { return len(c.values) }

// Values returns a copy of the values.
func (c *CollectionOperand) Values() []string { return append([]string(nil), c.values...) }

// At returns the i-th value.
func (c *CollectionOperand) At(i int) string { return c.values[i] }

func (c *CollectionOperand) Left() Node  { return nil }
func (c *CollectionOperand) Right() Node { return nil }
func (c *CollectionOperand) nodeMarker() {}
