package filter

// Emitter renders tree pieces into fragments of type T for a StackPass. A
// method returns false when it cannot express its input; the pass then
// applies the pruning rules to the failed fragment (a failed AND child is
// dropped, a failed OR or NOT child fails the parent). Under an odd number of
// NOTs a failed AND child fails the AND too, as in Pruner.
type Emitter[T any] interface {
	// Column renders a column reference. parent is the predicate holding it
	// and may be nil.
	Column(col *ColumnIndexOperand, parent *Operator) (T, bool)

	// Scalar renders a literal.
	Scalar(s *ScalarOperand, parent *Operator) (T, bool)

	// Collection renders the value list of IN.
	Collection(c *CollectionOperand, parent *Operator) (T, bool)

	// Predicate combines the rendered operands of a non-logical operator, in
	// tree order (one operand for IS NULL / IS NOT NULL).
	Predicate(op *Operator, operands []T) (T, bool)

	// Logical combines the rendered children of AND/OR (two) or NOT (one).
	Logical(op Operation, children []T) (T, bool)
}

// StackPass is a code generation pass. Operands push their rendering at
// Visit, operators pop their operands at Leave and push the combined
// fragment. A StackPass holds per-traversal state: use a new one for every
// Traverse call, and place it last when chaining.
type StackPass[T any] struct {
	BasePass
	emitter Emitter[T]
	stack   []fragment[T]
	marks   []int
	parents []*Operator
	negated []bool
}

type fragment[T any] struct {
	value T
	ok    bool
	node  Node
}

// NewStackPass returns a code generation pass driven by e.
func NewStackPass[T any](e Emitter[T]) *StackPass[T] {
	return &StackPass[T]{emitter: e}
}

// Enter records the stack height, so that a node pruned later can discard
// whatever its subtree pushed.
func (s *StackPass[T]) Enter(n Node, depth int) Node {
	for len(s.marks) <= depth {
		s.marks = append(s.marks, 0)
		s.parents = append(s.parents, nil)
		s.negated = append(s.negated, false)
	}
	s.marks[depth] = len(s.stack)
	op, _ := n.(*Operator)
	s.parents[depth] = op
	s.negated[depth] = negatedBelow(n, s.negatedAt(depth))
	return n
}

// negatedAt returns the NOT parity of a node at depth.
func (s *StackPass[T]) negatedAt(depth int) bool {
	return depth > 0 && s.negated[depth-1]
}

// Visit renders operands.
func (s *StackPass[T]) Visit(n Node, depth int) Node {
	var parent *Operator
	if depth > 0 {
		parent = s.parents[depth-1]
	}

	var (
		v  T
		ok bool
	)
	switch node := n.(type) {
	case *ColumnIndexOperand:
		v, ok = s.emitter.Column(node, parent)
	case *ScalarOperand:
		v, ok = s.emitter.Scalar(node, parent)
	case *CollectionOperand:
		v, ok = s.emitter.Collection(node, parent)
	default:
		return n
	}
	s.stack = append(s.stack, fragment[T]{value: v, ok: ok, node: n})
	return n
}

// Leave combines the fragments of an operator.
func (s *StackPass[T]) Leave(n Node, depth int) Node {
	mark := s.marks[depth]
	if n == nil {
		s.stack = s.stack[:mark]
		return n
	}

	produced := s.stack[mark:]
	if len(produced) == 1 && produced[0].node == n {
		// operand, or a child promoted in place of this node
		return n
	}

	op, ok := n.(*Operator)
	if !ok || len(produced) != op.Op().Arity() {
		s.stack = append(s.stack[:mark], fragment[T]{node: n})
		return n
	}

	combined := s.combine(op, produced, s.negatedAt(depth))
	combined.node = n
	s.stack = append(s.stack[:mark], combined)
	return n
}

// combine renders op from its operand fragments. negated is the NOT parity
// of op.
func (s *StackPass[T]) combine(op *Operator, parts []fragment[T], negated bool) fragment[T] {
	if !op.Op().IsLogical() {
		values := make([]T, len(parts))
		for i, p := range parts {
			if !p.ok {
				return fragment[T]{}
			}
			values[i] = p.value
		}
		v, ok := s.emitter.Predicate(op, values)
		return fragment[T]{value: v, ok: ok}
	}

	switch op.Op() {
	case OpAnd:
		switch {
		case !parts[0].ok && !parts[1].ok:
			return fragment[T]{}
		case negated && (!parts[0].ok || !parts[1].ok):
			return fragment[T]{}
		case !parts[0].ok:
			return parts[1]
		case !parts[1].ok:
			return parts[0]
		}
	case OpOr:
		if !parts[0].ok || !parts[1].ok {
			return fragment[T]{}
		}
	case OpNot:
		if !parts[0].ok {
			return fragment[T]{}
		}
	}

	values := make([]T, len(parts))
	for i, p := range parts {
		values[i] = p.value
	}
	v, ok := s.emitter.Logical(op.Op(), values)
	return fragment[T]{value: v, ok: ok}
}

// Result returns the rendering of the whole tree. It is false when the tree
// was pruned or nothing could be rendered.
func (s *StackPass[T]) Result() (T, bool) {
	var zero T
	if len(s.stack) != 1 || !s.stack[0].ok {
		return zero, false
	}
	return s.stack[0].value, true
}

// Generate runs pass over root and returns its result.
func Generate[T any](root Node, pass *StackPass[T]) (T, bool, error) {
	var zero T
	if root == nil {
		return zero, false, nil
	}
	out, err := Traverse(root, pass)
	if err != nil {
		return zero, false, err
	}
	if out == nil {
		return zero, false, nil
	}
	v, ok := pass.Result()
	return v, ok, nil
}
