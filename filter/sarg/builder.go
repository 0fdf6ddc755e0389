package sarg

import "fmt"

// Builder builds search arguments using a fluent API.
// Not thread-safe.
//
// Example:
//
//	s, err := sarg.NewBuilder().
//	    StartAnd().
//	        LessThan("id", sarg.KindLong, sarg.Long(10)).
//	        StartNot().
//	            IsNull("name", sarg.KindString).
//	        End().
//	    End().
//	    Build()
type Builder struct {
	stack []*Expression
	root  *Expression
	err   error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// StartAnd opens a conjunction closed by End.
func (b *Builder) StartAnd() *Builder { return b.start(ExprAnd) }

// StartOr opens a disjunction closed by End.
func (b *Builder) StartOr() *Builder { return b.start(ExprOr) }

// StartNot opens a negation of exactly one child, closed by End.
func (b *Builder) StartNot() *Builder { return b.start(ExprNot) }

func (b *Builder) start(kind ExpressionKind) *Builder {
	e := &Expression{Kind: kind}
	b.add(e)
	b.stack = append(b.stack, e)
	return b
}

// End closes the innermost Start call.
func (b *Builder) End() *Builder {
	if len(b.stack) == 0 {
		b.fail(fmt.Errorf("%w: End without Start", ErrUnbalanced))
		return b
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if len(top.Children) == 0 || (top.Kind == ExprNot && len(top.Children) != 1) {
		b.fail(fmt.Errorf("%w: %s with %d children", ErrMalformedExpression, top.Kind, len(top.Children)))
	}
	return b
}

// Equals adds `column = lit`.
func (b *Builder) Equals(column string, kind Kind, lit Literal) *Builder {
	return b.leaf(Equals, column, kind, lit)
}

// NullSafeEquals adds `column <=> lit`.
func (b *Builder) NullSafeEquals(column string, kind Kind, lit Literal) *Builder {
	return b.leaf(NullSafeEquals, column, kind, lit)
}

// LessThan adds `column < lit`.
func (b *Builder) LessThan(column string, kind Kind, lit Literal) *Builder {
	return b.leaf(LessThan, column, kind, lit)
}

// LessThanEquals adds `column <= lit`.
func (b *Builder) LessThanEquals(column string, kind Kind, lit Literal) *Builder {
	return b.leaf(LessThanEquals, column, kind, lit)
}

// In adds `column IN (lits...)`.
func (b *Builder) In(column string, kind Kind, lits ...Literal) *Builder {
	if len(lits) == 0 {
		b.fail(fmt.Errorf("%w: IN on %s without values", ErrMalformedExpression, column))
		return b
	}
	return b.leaf(In, column, kind, lits...)
}

// IsNull adds `column IS NULL`.
func (b *Builder) IsNull(column string, kind Kind) *Builder {
	return b.leaf(IsNull, column, kind)
}

// Between adds `lower <= column AND column <= upper`.
func (b *Builder) Between(column string, kind Kind, lower, upper Literal) *Builder {
	return b.StartAnd().
		StartNot().LessThan(column, kind, lower).End().
		LessThanEquals(column, kind, upper).
		End()
}

func (b *Builder) leaf(op Operator, column string, kind Kind, lits ...Literal) *Builder {
	for _, l := range lits {
		if l.Kind != kind && !(l.numeric() && (kind == KindLong || kind == KindFloat)) {
			b.fail(fmt.Errorf("%w: %s literal for %s column %s", ErrInvalidLiteral, l.Kind, kind, column))
			return b
		}
	}
	b.add(LeafExpr(Leaf{Operator: op, Column: column, Type: kind, Literals: lits}))
	return b
}

func (b *Builder) add(e *Expression) {
	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		top.Children = append(top.Children, e)
		return
	}
	if b.root != nil {
		b.fail(fmt.Errorf("%w: more than one top level expression", ErrUnbalanced))
		return
	}
	b.root = e
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build returns the search argument. It reports the first error recorded
// while building.
func (b *Builder) Build() (*SearchArgument, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, fmt.Errorf("%w: %d expressions not ended", ErrUnbalanced, len(b.stack))
	}
	return New(b.root)
}
