package filter

// InExpansion rewrites `col IN (v1, ..., vn)` into the left-deep disjunction
// `(((col = v1) OR (col = v2)) OR ...) OR (col = vn)` so that later passes
// only need binary comparisons and OR.
func InExpansion() Pass {
	return &inExpansion{}
}

type inExpansion struct {
	BasePass
}

func (t *inExpansion) Leave(n Node, _ int) Node {
	op, ok := n.(*Operator)
	if !ok || op.Op() != OpIn {
		return n
	}
	col, ok := op.Column()
	if !ok {
		return n
	}
	values, ok := op.Value()
	if !ok {
		return n
	}
	coll, ok := values.(*CollectionOperand)
	if !ok || coll.Len() == 0 {
		return n
	}

	elem := coll.DataType().ElementType()
	result := &Operator{op: OpEquals, left: col, right: &ScalarOperand{dataType: elem, value: coll.values[0]}}
	for _, v := range coll.values[1:] {
		eq := &Operator{op: OpEquals, left: col, right: &ScalarOperand{dataType: elem, value: v}}
		result = &Operator{op: OpOr, left: result, right: eq}
	}
	return result
}
