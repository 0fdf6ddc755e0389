package arrowfilter

import (
	"fmt"
	"regexp"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

// predicate evaluates one row of a bound batch.
type predicate func(b *binding, row int) Truth

// binding holds the readers of the columns a filter references in one batch,
// indexed by column index.
type binding struct {
	cells map[int]cellReader
}

// Evaluator evaluates a filter tree against record batches. It is immutable
// after New and safe for concurrent use.
type Evaluator struct {
	columns filter.Columns
	eval    predicate
	used    []int
}

// New compiles root for columns. Column indexes resolve to batch fields by
// name. A nil root keeps every row.
func New(root filter.Node, columns filter.Columns) (*Evaluator, error) {
	e := &Evaluator{columns: columns}
	if root == nil {
		e.eval = func(*binding, int) Truth { return True }
		return e, nil
	}
	eval, err := e.compile(root)
	if err != nil {
		return nil, err
	}
	e.eval = eval
	return e, nil
}

func (e *Evaluator) compile(n filter.Node) (predicate, error) {
	op, ok := n.(*filter.Operator)
	if !ok {
		return nil, fmt.Errorf("%w: operand %T at predicate position", ErrUnsupported, n)
	}

	switch op.Op() {
	case filter.OpAnd, filter.OpOr:
		left, err := e.compile(op.Left())
		if err != nil {
			return nil, err
		}
		right, err := e.compile(op.Right())
		if err != nil {
			return nil, err
		}
		if op.Op() == filter.OpAnd {
			return func(b *binding, row int) Truth { return left(b, row).And(right(b, row)) }, nil
		}
		return func(b *binding, row int) Truth { return left(b, row).Or(right(b, row)) }, nil
	case filter.OpNot:
		child, err := e.compile(op.Left())
		if err != nil {
			return nil, err
		}
		return func(b *binding, row int) Truth { return child(b, row).Not() }, nil
	}

	norm, ok := op.Normalize()
	if !ok {
		return nil, fmt.Errorf("%w: %s with the column on the right", ErrUnsupported, op.Op())
	}
	ref, _ := norm.Column()
	col, ok := e.columns.At(ref.Index())
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownColumn, ref.Index())
	}
	idx := ref.Index()
	e.used = append(e.used, idx)
	kind, ok := sarg.KindOf(col.Type)
	if !ok {
		return nil, fmt.Errorf("%w: column %s of type %s", ErrUnsupported, col.Name, col.Type)
	}

	switch norm.Op() {
	case filter.OpIsNull, filter.OpIsNotNull:
		want := norm.Op() == filter.OpIsNull
		return func(b *binding, row int) Truth {
			_, valid := b.cells[idx](row)
			return truthOf(!valid == want)
		}, nil

	case filter.OpIn:
		coll := norm.Right().(*filter.CollectionOperand)
		lits := make([]sarg.Literal, 0, coll.Len())
		for _, v := range coll.Values() {
			lit, err := sarg.ParseLiteral(v, kind)
			if err != nil {
				return nil, fmt.Errorf("IN value for %s: %w", col.Name, err)
			}
			lits = append(lits, lit)
		}
		return func(b *binding, row int) Truth {
			cell, valid := b.cells[idx](row)
			if !valid {
				return Unknown
			}
			for _, lit := range lits {
				if c, ok := sarg.Compare(cell, lit); ok && c == 0 {
					return True
				}
			}
			return False
		}, nil

	case filter.OpLike:
		if kind != sarg.KindString {
			return nil, fmt.Errorf("%w: LIKE on %s column %s", ErrUnsupported, col.Type, col.Name)
		}
		s, _ := norm.Scalar()
		re, err := filter.CompileLike(s.Value())
		if err != nil {
			return nil, fmt.Errorf("%w: LIKE pattern %q: %v", ErrUnsupported, s.Value(), err)
		}
		return likePredicate(idx, re), nil
	}

	s, ok := norm.Scalar()
	if !ok {
		return nil, fmt.Errorf("%w: %s without a literal", ErrUnsupported, norm.Op())
	}
	lit, err := sarg.ParseLiteral(s.Value(), kind)
	if err != nil {
		return nil, fmt.Errorf("literal for %s: %w", col.Name, err)
	}
	test, err := comparison(norm.Op())
	if err != nil {
		return nil, err
	}
	return func(b *binding, row int) Truth {
		cell, valid := b.cells[idx](row)
		if !valid {
			return Unknown
		}
		c, ok := sarg.Compare(cell, lit)
		if !ok {
			return Unknown
		}
		return truthOf(test(c))
	}, nil
}

func likePredicate(idx int, re *regexp.Regexp) predicate {
	return func(b *binding, row int) Truth {
		cell, valid := b.cells[idx](row)
		if !valid {
			return Unknown
		}
		return truthOf(re.MatchString(cell.Str))
	}
}

func comparison(op filter.Operation) (func(c int) bool, error) {
	switch op {
	case filter.OpEquals, filter.OpNoop:
		return func(c int) bool { return c == 0 }, nil
	case filter.OpNotEquals:
		return func(c int) bool { return c != 0 }, nil
	case filter.OpLessThan:
		return func(c int) bool { return c < 0 }, nil
	case filter.OpLessThanOrEqual:
		return func(c int) bool { return c <= 0 }, nil
	case filter.OpGreaterThan:
		return func(c int) bool { return c > 0 }, nil
	case filter.OpGreaterThanOrEqual:
		return func(c int) bool { return c >= 0 }, nil
	}
	return nil, fmt.Errorf("%w: operation %s", ErrUnsupported, op)
}

func (e *Evaluator) bind(batch arrow.RecordBatch) (*binding, error) {
	b := &binding{cells: make(map[int]cellReader, len(e.used))}
	schema := batch.Schema()
	for _, idx := range e.used {
		if _, ok := b.cells[idx]; ok {
			continue
		}
		col, _ := e.columns.At(idx)
		fields := schema.FieldIndices(col.Name)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: batch has no column %s", ErrUnknownColumn, col.Name)
		}
		r, err := newCellReader(batch.Column(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		b.cells[idx] = r
	}
	return b, nil
}

// Evaluate returns the truth value of the filter for every row of batch.
func (e *Evaluator) Evaluate(batch arrow.RecordBatch) ([]Truth, error) {
	b, err := e.bind(batch)
	if err != nil {
		return nil, err
	}
	out := make([]Truth, batch.NumRows())
	for i := range out {
		out[i] = e.eval(b, i)
	}
	return out, nil
}
