package filter

import "fmt"

// NewOperator builds an operator node and checks its shape:
//   - AND/OR take two operator children, NOT takes one (left).
//   - IS NULL / IS NOT NULL take a single column operand (left).
//   - IN takes a column and a collection, in either order.
//   - other predicates take a column and a scalar, in either order.
func NewOperator(op Operation, left, right Node) (*Operator, error) {
	if !op.valid() {
		return nil, &TreeShapeError{Op: op, Msg: fmt.Sprintf("unknown operation %d", int(op))}
	}

	switch {
	case op.IsLogical():
		if !isOperator(left) {
			return nil, &TreeShapeError{Op: op, Msg: op.String() + " requires an operator as left child"}
		}
		if op == OpNot {
			if right != nil {
				return nil, &TreeShapeError{Op: op, Msg: "NOT takes a single child"}
			}
		} else if !isOperator(right) {
			return nil, &TreeShapeError{Op: op, Msg: op.String() + " requires an operator as right child"}
		}

	case op.Arity() == 1:
		if _, ok := left.(*ColumnIndexOperand); !ok || right != nil {
			return nil, &TreeShapeError{Op: op, Msg: op.String() + " takes a single column operand"}
		}

	default:
		col, other := left, right
		if _, ok := col.(*ColumnIndexOperand); !ok {
			col, other = right, left
		}
		if _, ok := col.(*ColumnIndexOperand); !ok {
			return nil, &TreeShapeError{Op: op, Msg: op.String() + " requires a column operand"}
		}
		switch other.(type) {
		case *ScalarOperand:
			if op == OpIn {
				return nil, &TreeShapeError{Op: op, Msg: "IN requires a collection operand"}
			}
		case *CollectionOperand:
			if op != OpIn {
				return nil, &TreeShapeError{Op: op, Msg: op.String() + " requires a scalar operand"}
			}
		default:
			return nil, &TreeShapeError{Op: op, Msg: op.String() + " requires a literal operand"}
		}
	}

	return &Operator{op: op, left: left, right: right}, nil
}

func isOperator(n Node) bool {
	op, ok := n.(*Operator)
	return ok && op != nil
}

func mustOperator(op Operation, left, right Node) *Operator {
	o, err := NewOperator(op, left, right)
	if err != nil {
		panic(err)
	}
	return o
}

// Compare builds `col op value`. It panics if op is not a comparison.
func Compare(op Operation, col *ColumnIndexOperand, value *ScalarOperand) *Operator {
	if !op.IsComparison() {
		panic(fmt.Sprintf("filter: %s is not a comparison", op))
	}
	return mustOperator(op, col, value)
}

// IsNull builds `col IS NULL`.
func IsNull(col *ColumnIndexOperand) *Operator {
	return mustOperator(OpIsNull, col, nil)
}

// IsNotNull builds `col IS NOT NULL`.
func IsNotNull(col *ColumnIndexOperand) *Operator {
	return mustOperator(OpIsNotNull, col, nil)
}

// In builds `col IN (values...)`.
func In(col *ColumnIndexOperand, values *CollectionOperand) *Operator {
	return mustOperator(OpIn, col, values)
}

// And builds `left AND right`.
func And(left, right *Operator) *Operator {
	return mustOperator(OpAnd, left, right)
}

// Or builds `left OR right`.
func Or(left, right *Operator) *Operator {
	return mustOperator(OpOr, left, right)
}

// Not builds `NOT child`.
func Not(child *Operator) *Operator {
	return mustOperator(OpNot, child, nil)
}
