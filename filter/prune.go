package filter

// Pruner removes predicates a backend cannot evaluate while keeping the
// filter a sound over-approximation of the original:
//
//   - an unsupported predicate is replaced by absence (nil);
//   - AND with one absent child is promoted to the other child,
//     AND with both children absent becomes absent;
//   - OR with any absent child becomes absent;
//   - NOT with an absent child becomes absent.
//
// Dropping a conjunct weakens an AND, which is only safe where the AND is
// under an even number of NOTs. Under an odd number of NOTs an AND with an
// absent child becomes absent instead, so NOT(P AND unsupported) is pruned
// whole while NOT(NOT(P AND unsupported)) still keeps P.
//
// Only the support test differs between pruners. A Pruner holds
// per-traversal state and must not be shared between concurrent Traverse
// calls.
type Pruner struct {
	BasePass
	supported func(op *Operator) bool

	// negated[d] reports whether the children of the node entered at depth
	// d sit under an odd number of NOTs.
	negated []bool
}

// PredicatePruner returns a pruner that keeps operators for which supported
// returns true. The function sees logical operators too.
func PredicatePruner(supported func(op *Operator) bool) *Pruner {
	return &Pruner{supported: supported}
}

// Enter records the NOT parity below n.
func (p *Pruner) Enter(n Node, depth int) Node {
	p.negated = append(p.negated[:depth], negatedBelow(n, p.negatedAt(depth)))
	return n
}

// negatedAt returns the NOT parity of a node at depth.
func (p *Pruner) negatedAt(depth int) bool {
	return depth > 0 && p.negated[depth-1]
}

// negatedBelow returns the NOT parity of the children of n, given the parity
// of n itself.
func negatedBelow(n Node, negated bool) bool {
	if op, ok := n.(*Operator); ok && op.op == OpNot {
		return !negated
	}
	return negated
}

// Visit prunes an unsupported operator. It runs after the left subtree, so
// pruning here also skips the right subtree.
func (p *Pruner) Visit(n Node, _ int) Node {
	op, ok := n.(*Operator)
	if !ok {
		return n
	}
	if !p.supported(op) {
		return nil
	}
	return n
}

// Leave applies the promotion rules to operators that lost children.
func (p *Pruner) Leave(n Node, depth int) Node {
	return collapse(n, p.negatedAt(depth))
}

// collapse applies the pruning rules to n. negated is the NOT parity of n.
func collapse(n Node, negated bool) Node {
	op, ok := n.(*Operator)
	if !ok {
		return n
	}

	switch op.op {
	case OpAnd:
		switch {
		case op.left == nil && op.right == nil:
			return nil
		case negated && (op.left == nil || op.right == nil):
			return nil
		case op.left == nil:
			return op.right
		case op.right == nil:
			return op.left
		}
	case OpOr:
		if op.left == nil || op.right == nil {
			return nil
		}
	case OpNot:
		if op.left == nil {
			return nil
		}
	default:
		if op.left == nil || (op.op.Arity() == 2 && op.right == nil) {
			return nil
		}
	}
	return n
}

// SupportedOperatorPruner prunes operators, logical ones included, that are
// not in ops.
func SupportedOperatorPruner(ops OperationSet) *Pruner {
	return PredicatePruner(func(op *Operator) bool {
		return ops.Contains(op.Op())
	})
}

// SupportedDataTypePruner prunes predicates on columns whose type is not in
// types.
func SupportedDataTypePruner(columns Columns, types DataTypeSet) *Pruner {
	return PredicatePruner(func(op *Operator) bool {
		if op.Op().IsLogical() {
			return true
		}
		col, ok := predicateColumn(op, columns)
		return ok && types.Contains(col.Type)
	})
}

// PushableColumnPruner prunes predicates on columns marked Excluded.
func PushableColumnPruner(columns Columns) *Pruner {
	return PredicatePruner(func(op *Operator) bool {
		if op.Op().IsLogical() {
			return true
		}
		col, ok := predicateColumn(op, columns)
		return ok && !col.Excluded
	})
}

// PartitionPruner keeps only predicates on partition keys. keys maps
// partition column names to their types. When types is not nil, only keys of
// those types are kept.
func PartitionPruner(columns Columns, keys map[string]DataType, types DataTypeSet) *Pruner {
	return PredicatePruner(func(op *Operator) bool {
		if op.Op().IsLogical() {
			return true
		}
		col, ok := predicateColumn(op, columns)
		if !ok {
			return false
		}
		keyType, isKey := keys[col.Name]
		if !isKey {
			return false
		}
		return types == nil || types.Contains(keyType)
	})
}

// predicateColumn resolves the column of a predicate. Out of range indexes
// resolve to false.
func predicateColumn(op *Operator, columns Columns) (Column, bool) {
	ref, ok := op.Column()
	if !ok {
		return Column{}, false
	}
	return columns.At(ref.Index())
}
