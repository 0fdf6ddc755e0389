package sarg

import "github.com/hugr-lab/pushdown-go/filter"

// part is a fragment of a search argument under construction: a column
// reference, literals, or a finished expression.
type part struct {
	column *filter.Column
	lits   []Literal
	expr   *Expression
}

// Pass converts a filter tree into a search argument. Predicates without a
// search argument form (LIKE, unsupported types, unparsable literals) are
// dropped under the usual pruning rules. Chain it last in filter.Traverse.
type Pass struct {
	*filter.StackPass[part]
}

// NewPass returns a conversion pass over columns.
func NewPass(columns filter.Columns) *Pass {
	return &Pass{StackPass: filter.NewStackPass[part](&emitter{columns: columns})}
}

// SearchArgument returns the converted search argument; false means nothing
// could be converted.
func (p *Pass) SearchArgument() (*SearchArgument, bool) {
	res, ok := p.Result()
	if !ok || res.expr == nil {
		return nil, false
	}
	s, err := New(res.expr)
	if err != nil {
		return nil, false
	}
	return s, true
}

// FromFilter converts root into a search argument.
func FromFilter(root filter.Node, columns filter.Columns) (*SearchArgument, bool, error) {
	if root == nil {
		return nil, false, nil
	}
	p := NewPass(columns)
	out, err := filter.Traverse(root, p)
	if err != nil || out == nil {
		return nil, false, err
	}
	s, ok := p.SearchArgument()
	return s, ok, nil
}

type emitter struct {
	columns filter.Columns
}

func (e *emitter) Column(c *filter.ColumnIndexOperand, _ *filter.Operator) (part, bool) {
	col, ok := e.columns.At(c.Index())
	if !ok {
		return part{}, false
	}
	if _, ok := KindOf(col.Type); !ok {
		return part{}, false
	}
	return part{column: &col}, true
}

// literalKind returns the kind literals of the predicate are parsed as: the
// kind of the compared column.
func (e *emitter) literalKind(parent *filter.Operator) (Kind, bool) {
	if parent == nil {
		return 0, false
	}
	ref, ok := parent.Column()
	if !ok {
		return 0, false
	}
	col, ok := e.columns.At(ref.Index())
	if !ok {
		return 0, false
	}
	return KindOf(col.Type)
}

func (e *emitter) Scalar(s *filter.ScalarOperand, parent *filter.Operator) (part, bool) {
	kind, ok := e.literalKind(parent)
	if !ok {
		return part{}, false
	}
	lit, err := ParseLiteral(s.Value(), kind)
	if err != nil {
		return part{}, false
	}
	return part{lits: []Literal{lit}}, true
}

func (e *emitter) Collection(c *filter.CollectionOperand, parent *filter.Operator) (part, bool) {
	kind, ok := e.literalKind(parent)
	if !ok {
		return part{}, false
	}
	lits := make([]Literal, 0, c.Len())
	for _, v := range c.Values() {
		lit, err := ParseLiteral(v, kind)
		if err != nil {
			return part{}, false
		}
		lits = append(lits, lit)
	}
	return part{lits: lits}, true
}

func (e *emitter) Predicate(op *filter.Operator, operands []part) (part, bool) {
	operation := op.Op()
	col, value := operands[0], part{}
	if len(operands) == 2 {
		value = operands[1]
		if col.column == nil {
			col, value = value, col
			mirror, ok := operation.Mirror()
			if !ok {
				return part{}, false
			}
			operation = mirror
		}
	}
	if col.column == nil {
		return part{}, false
	}

	kind, _ := KindOf(col.column.Type)
	leaf := func(o Operator) *Expression {
		return LeafExpr(Leaf{Operator: o, Column: col.column.Name, Type: kind, Literals: value.lits})
	}

	var expr *Expression
	switch operation {
	case filter.OpEquals, filter.OpNoop:
		expr = leaf(Equals)
	case filter.OpNotEquals:
		expr = Not(leaf(Equals))
	case filter.OpLessThan:
		expr = leaf(LessThan)
	case filter.OpLessThanOrEqual:
		expr = leaf(LessThanEquals)
	case filter.OpGreaterThan:
		expr = Not(leaf(LessThanEquals))
	case filter.OpGreaterThanOrEqual:
		expr = Not(leaf(LessThan))
	case filter.OpIn:
		expr = leaf(In)
	case filter.OpIsNull:
		expr = leaf(IsNull)
	case filter.OpIsNotNull:
		expr = Not(leaf(IsNull))
	default:
		return part{}, false
	}
	return part{expr: expr}, true
}

func (e *emitter) Logical(op filter.Operation, children []part) (part, bool) {
	switch op {
	case filter.OpAnd:
		return part{expr: And(children[0].expr, children[1].expr)}, true
	case filter.OpOr:
		return part{expr: Or(children[0].expr, children[1].expr)}, true
	case filter.OpNot:
		return part{expr: Not(children[0].expr)}, true
	}
	return part{}, false
}
