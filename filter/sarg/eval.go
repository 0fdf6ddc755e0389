package sarg

// ColumnStats summarizes the values of one column in a row group.
type ColumnStats struct {
	// Min and Max bound the non-null values. Both are nil when the
	// column holds only nulls or the bounds are unknown.
	Min, Max *Literal

	// HasNull reports whether the column may contain nulls.
	HasNull bool

	// AllNull reports that every value is null.
	AllNull bool
}

// Stats returns the statistics of a column by name; false means unknown.
type Stats func(column string) (ColumnStats, bool)

// Evaluate returns the possible outcomes of the search argument over a row
// group described by stats. The group can be skipped when the result is
// not IsNeeded.
func (s *SearchArgument) Evaluate(stats Stats) TruthValue {
	leaves := make([]TruthValue, len(s.Leaves))
	for i, l := range s.Leaves {
		cs, ok := stats(l.Column)
		if !ok {
			leaves[i] = YesNoNull
			continue
		}
		leaves[i] = l.Evaluate(cs)
	}
	return s.EvaluateLeaves(leaves)
}

// EvaluateLeaves combines precomputed leaf outcomes, indexed like Leaves.
func (s *SearchArgument) EvaluateLeaves(leaves []TruthValue) TruthValue {
	return evaluate(s.Root, leaves)
}

func evaluate(e *Expression, leaves []TruthValue) TruthValue {
	switch e.Kind {
	case ExprLeaf:
		if e.LeafIndex < 0 || e.LeafIndex >= len(leaves) {
			return YesNoNull
		}
		return leaves[e.LeafIndex]
	case ExprNot:
		return evaluate(e.Children[0], leaves).Not()
	case ExprAnd:
		out := Yes
		for _, c := range e.Children {
			out = out.And(evaluate(c, leaves))
		}
		return out
	case ExprOr:
		out := No
		for _, c := range e.Children {
			out = out.Or(evaluate(c, leaves))
		}
		return out
	}
	return YesNoNull
}

// Evaluate returns the possible outcomes of the leaf over a row group.
func (l Leaf) Evaluate(cs ColumnStats) TruthValue {
	if l.Operator == IsNull {
		switch {
		case cs.AllNull:
			return Yes
		case cs.HasNull:
			return YesNo
		}
		return No
	}

	if cs.AllNull {
		if l.Operator == NullSafeEquals {
			return No
		}
		return Null
	}
	if cs.Min == nil || cs.Max == nil {
		return YesNoNull
	}

	result, ok := l.evaluateRange(*cs.Min, *cs.Max)
	if !ok {
		return YesNoNull
	}
	if cs.HasNull && l.Operator != NullSafeEquals {
		result = result.WithNull()
	} else if cs.HasNull {
		result |= No
	}
	return result
}

// evaluateRange compares the literals with the [min, max] range of the
// non-null values.
func (l Leaf) evaluateRange(min, max Literal) (TruthValue, bool) {
	if l.Operator == In {
		out := TruthValue(0)
		for _, lit := range l.Literals {
			v, ok := equalsRange(lit, min, max)
			if !ok {
				return 0, false
			}
			out = out.orSet(v)
		}
		return out, out != 0
	}

	lit, ok := l.Literal()
	if !ok {
		return 0, false
	}
	switch l.Operator {
	case Equals, NullSafeEquals:
		return equalsRange(lit, min, max)
	case LessThan:
		loCmp, ok1 := Compare(min, lit)
		hiCmp, ok2 := Compare(max, lit)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case hiCmp < 0:
			return Yes, true
		case loCmp >= 0:
			return No, true
		}
		return YesNo, true
	case LessThanEquals:
		loCmp, ok1 := Compare(min, lit)
		hiCmp, ok2 := Compare(max, lit)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case hiCmp <= 0:
			return Yes, true
		case loCmp > 0:
			return No, true
		}
		return YesNo, true
	}
	return 0, false
}

func equalsRange(lit, min, max Literal) (TruthValue, bool) {
	loCmp, ok1 := Compare(min, lit)
	hiCmp, ok2 := Compare(max, lit)
	if !ok1 || !ok2 {
		return 0, false
	}
	switch {
	case loCmp > 0 || hiCmp < 0:
		return No, true
	case loCmp == 0 && hiCmp == 0:
		return Yes, true
	}
	return YesNo, true
}

// orSet merges the outcome sets of two IN values: a row matches IN when it
// matches any value.
func (t TruthValue) orSet(o TruthValue) TruthValue {
	if t == 0 {
		return o
	}
	return t.Or(o)
}
