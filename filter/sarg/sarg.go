// Package sarg implements search arguments: the native filter object of
// columnar readers. A search argument is a boolean expression over leaf
// predicates that compare one column with literals. Readers evaluate it
// against per row group statistics to skip data that cannot match.
package sarg

import (
	"fmt"
	"strings"
)

// Operator is the comparison of a leaf predicate. `>`, `>=` and `<>` are
// written with NOT around LessThanEquals, LessThan and Equals.
type Operator int

const (
	Equals Operator = iota
	NullSafeEquals
	LessThan
	LessThanEquals
	In
	IsNull
)

var operatorNames = [...]string{
	Equals:         "EQUALS",
	NullSafeEquals: "NULL_SAFE_EQUALS",
	LessThan:       "LESS_THAN",
	LessThanEquals: "LESS_THAN_EQUALS",
	In:             "IN",
	IsNull:         "IS_NULL",
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Leaf is a predicate on one column.
type Leaf struct {
	Operator Operator  `msgpack:"op"`
	Column   string    `msgpack:"col"`
	Type     Kind      `msgpack:"type"`
	Literals []Literal `msgpack:"lits,omitempty"`
}

// Literal returns the single literal of a comparison leaf.
func (l Leaf) Literal() (Literal, bool) {
	if l.Operator == In || l.Operator == IsNull || len(l.Literals) != 1 {
		return Literal{}, false
	}
	return l.Literals[0], true
}

func (l Leaf) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(l.Operator.String())
	sb.WriteString(" ")
	sb.WriteString(l.Column)
	for _, lit := range l.Literals {
		sb.WriteString(" ")
		sb.WriteString(lit.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (l Leaf) equal(o Leaf) bool {
	if l.Operator != o.Operator || l.Column != o.Column || l.Type != o.Type || len(l.Literals) != len(o.Literals) {
		return false
	}
	for i := range l.Literals {
		if l.Literals[i] != o.Literals[i] {
			return false
		}
	}
	return true
}

// ExpressionKind tells the node type of an Expression.
type ExpressionKind int

const (
	ExprLeaf ExpressionKind = iota
	ExprAnd
	ExprOr
	ExprNot
)

// Expression is a node of the boolean expression of a search argument.
type Expression struct {
	Kind     ExpressionKind `msgpack:"kind"`
	Children []*Expression  `msgpack:"children,omitempty"`

	// LeafIndex is the index in SearchArgument.Leaves of an ExprLeaf node.
	LeafIndex int `msgpack:"leaf"`

	leaf *Leaf
}

// LeafExpr returns an expression node for leaf.
func LeafExpr(leaf Leaf) *Expression {
	return &Expression{Kind: ExprLeaf, leaf: &leaf}
}

// And returns the conjunction of children.
func And(children ...*Expression) *Expression {
	return &Expression{Kind: ExprAnd, Children: children}
}

// Or returns the disjunction of children.
func Or(children ...*Expression) *Expression {
	return &Expression{Kind: ExprOr, Children: children}
}

// Not returns the negation of child.
func Not(child *Expression) *Expression {
	return &Expression{Kind: ExprNot, Children: []*Expression{child}}
}

// SearchArgument is a boolean expression over deduplicated leaves.
type SearchArgument struct {
	Leaves []Leaf      `msgpack:"leaves"`
	Root   *Expression `msgpack:"root"`
}

// New builds a search argument from an expression built with LeafExpr, And,
// Or and Not. Identical leaves are stored once.
func New(root *Expression) (*SearchArgument, error) {
	if root == nil {
		return nil, ErrEmptyExpression
	}
	s := &SearchArgument{}
	out, err := s.intern(root)
	if err != nil {
		return nil, err
	}
	s.Root = out
	return s, nil
}

func (s *SearchArgument) intern(e *Expression) (*Expression, error) {
	switch e.Kind {
	case ExprLeaf:
		if e.leaf == nil {
			if e.LeafIndex < 0 || e.LeafIndex >= len(s.Leaves) {
				return nil, fmt.Errorf("%w: leaf without predicate", ErrMalformedExpression)
			}
			return &Expression{Kind: ExprLeaf, LeafIndex: e.LeafIndex}, nil
		}
		for i, l := range s.Leaves {
			if l.equal(*e.leaf) {
				return &Expression{Kind: ExprLeaf, LeafIndex: i}, nil
			}
		}
		s.Leaves = append(s.Leaves, *e.leaf)
		return &Expression{Kind: ExprLeaf, LeafIndex: len(s.Leaves) - 1}, nil

	case ExprAnd, ExprOr, ExprNot:
		if len(e.Children) == 0 || (e.Kind == ExprNot && len(e.Children) != 1) {
			return nil, fmt.Errorf("%w: %s with %d children", ErrMalformedExpression, e.Kind, len(e.Children))
		}
		out := &Expression{Kind: e.Kind, Children: make([]*Expression, len(e.Children))}
		for i, c := range e.Children {
			if c == nil {
				return nil, fmt.Errorf("%w: nil child", ErrMalformedExpression)
			}
			child, err := s.intern(c)
			if err != nil {
				return nil, err
			}
			out.Children[i] = child
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformedExpression, int(e.Kind))
}

func (k ExpressionKind) String() string {
	switch k {
	case ExprLeaf:
		return "leaf"
	case ExprAnd:
		return "and"
	case ExprOr:
		return "or"
	case ExprNot:
		return "not"
	}
	return fmt.Sprintf("ExpressionKind(%d)", int(k))
}

// String returns the leaves and the expression, e.g.
//
//	leaf-0 = (LESS_THAN id 10), expr = (not leaf-0)
func (s *SearchArgument) String() string {
	var sb strings.Builder
	for i, l := range s.Leaves {
		fmt.Fprintf(&sb, "leaf-%d = %s, ", i, l)
	}
	sb.WriteString("expr = ")
	writeExpression(&sb, s.Root)
	return sb.String()
}

func writeExpression(sb *strings.Builder, e *Expression) {
	if e == nil {
		sb.WriteString("nil")
		return
	}
	if e.Kind == ExprLeaf {
		fmt.Fprintf(sb, "leaf-%d", e.LeafIndex)
		return
	}
	sb.WriteString("(")
	sb.WriteString(e.Kind.String())
	for _, c := range e.Children {
		sb.WriteString(" ")
		writeExpression(sb, c)
	}
	sb.WriteString(")")
}

// validate checks the expression against the leaf table after decoding.
func (s *SearchArgument) validate() error {
	if s.Root == nil {
		return ErrEmptyExpression
	}
	var check func(e *Expression) error
	check = func(e *Expression) error {
		if e == nil {
			return fmt.Errorf("%w: nil node", ErrMalformedExpression)
		}
		switch e.Kind {
		case ExprLeaf:
			if e.LeafIndex < 0 || e.LeafIndex >= len(s.Leaves) {
				return fmt.Errorf("%w: leaf index %d out of range", ErrMalformedExpression, e.LeafIndex)
			}
			return nil
		case ExprAnd, ExprOr, ExprNot:
			if len(e.Children) == 0 || (e.Kind == ExprNot && len(e.Children) != 1) {
				return fmt.Errorf("%w: %s with %d children", ErrMalformedExpression, e.Kind, len(e.Children))
			}
			for _, c := range e.Children {
				if err := check(c); err != nil {
					return err
				}
			}
			return nil
		}
		return fmt.Errorf("%w: unknown kind %d", ErrMalformedExpression, int(e.Kind))
	}
	return check(s.Root)
}
