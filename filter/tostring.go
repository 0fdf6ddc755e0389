package filter

import "strings"

// ToStringPass returns a codegen pass producing the debug form of a tree:
// `col OP value`, `(left AND right)`, `NOT (expr)`, `col IN (v1,v2)`.
// Columns render as names[i] when available and as `_i_` otherwise.
func ToStringPass(names ...string) *StackPass[string] {
	return NewStackPass[string](textEmitter{names: names})
}

// Format renders root in debug form. It returns "" for a nil tree.
func Format(root Node, names ...string) (string, error) {
	s, _, err := Generate(root, ToStringPass(names...))
	return s, err
}

type textEmitter struct {
	names []string
}

func (e textEmitter) Column(col *ColumnIndexOperand, _ *Operator) (string, bool) {
	if i := col.Index(); i < len(e.names) && e.names[i] != "" {
		return e.names[i], true
	}
	return col.String(), true
}

func (textEmitter) Scalar(s *ScalarOperand, _ *Operator) (string, bool) {
	return s.Value(), true
}

func (textEmitter) Collection(c *CollectionOperand, _ *Operator) (string, bool) {
	return "(" + strings.Join(c.values, ",") + ")", true
}

func (textEmitter) Predicate(op *Operator, operands []string) (string, bool) {
	if len(operands) == 1 {
		return operands[0] + " " + op.Op().String(), true
	}
	return operands[0] + " " + op.Op().String() + " " + operands[1], true
}

func (textEmitter) Logical(op Operation, children []string) (string, bool) {
	if op == OpNot {
		return "NOT (" + children[0] + ")", true
	}
	return "(" + children[0] + " " + op.String() + " " + children[1] + ")", true
}
