package filter

// Operation identifies what an Operator node does.
type Operation int

const (
	OpNoop Operation = iota
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpEquals
	OpNotEquals
	OpLike
	OpIsNull
	OpIsNotNull
	OpIn

	OpAnd
	OpOr
	OpNot
)

type operationInfo struct {
	symbol  string
	arity   int
	logical bool
	code    int
	mirror  Operation
}

// operations is indexed by Operation.
var operations = [...]operationInfo{
	OpNoop:               {symbol: "=", arity: 2, code: 0, mirror: OpNoop},
	OpLessThan:           {symbol: "<", arity: 2, code: 1, mirror: OpGreaterThan},
	OpGreaterThan:        {symbol: ">", arity: 2, code: 2, mirror: OpLessThan},
	OpLessThanOrEqual:    {symbol: "<=", arity: 2, code: 3, mirror: OpGreaterThanOrEqual},
	OpGreaterThanOrEqual: {symbol: ">=", arity: 2, code: 4, mirror: OpLessThanOrEqual},
	OpEquals:             {symbol: "=", arity: 2, code: 5, mirror: OpEquals},
	OpNotEquals:          {symbol: "<>", arity: 2, code: 6, mirror: OpNotEquals},
	OpLike:               {symbol: "LIKE", arity: 2, code: 7, mirror: -1},
	OpIsNull:             {symbol: "IS NULL", arity: 1, code: 8, mirror: -1},
	OpIsNotNull:          {symbol: "IS NOT NULL", arity: 1, code: 9, mirror: -1},
	OpIn:                 {symbol: "IN", arity: 2, code: 10, mirror: -1},
	OpAnd:                {symbol: "AND", arity: 2, logical: true, code: 0, mirror: -1},
	OpOr:                 {symbol: "OR", arity: 2, logical: true, code: 1, mirror: -1},
	OpNot:                {symbol: "NOT", arity: 1, logical: true, code: 2, mirror: -1},
}

// operatorCodes maps `o<code>` tokens to operations.
var operatorCodes = [...]Operation{
	OpNoop, OpLessThan, OpGreaterThan, OpLessThanOrEqual, OpGreaterThanOrEqual,
	OpEquals, OpNotEquals, OpLike, OpIsNull, OpIsNotNull, OpIn,
}

// logicalCodes maps `l<code>` tokens to operations.
var logicalCodes = [...]Operation{OpAnd, OpOr, OpNot}

func (o Operation) valid() bool {
	return o >= OpNoop && o <= OpNot
}

// String returns the operator symbol used by the generic text form.
func (o Operation) String() string {
	if !o.valid() {
		return "UNKNOWN"
	}
	return operations[o].symbol
}

// Arity returns the number of children an operator with this operation has.
func (o Operation) Arity() int {
	if !o.valid() {
		return 0
	}
	return operations[o].arity
}

// IsLogical reports whether o is AND, OR or NOT.
func (o Operation) IsLogical() bool {
	return o.valid() && operations[o].logical
}

// IsComparison reports whether o compares a column against a single scalar.
func (o Operation) IsComparison() bool {
	switch o {
	case OpNoop, OpLessThan, OpGreaterThan, OpLessThanOrEqual, OpGreaterThanOrEqual,
		OpEquals, OpNotEquals, OpLike:
		return true
	}
	return false
}

// Code returns the wire code of o, which follows an `o` token for predicates
// and an `l` token for logical operations.
func (o Operation) Code() int {
	if !o.valid() {
		return -1
	}
	return operations[o].code
}

// Mirror returns the operation that gives the same result with the operands
// swapped. The second result is false for operations without one (LIKE).
func (o Operation) Mirror() (Operation, bool) {
	if !o.valid() || operations[o].mirror < 0 {
		return o, false
	}
	return operations[o].mirror, true
}

// OperationSet is a set of operations, used to configure pruners.
type OperationSet map[Operation]struct{}

// NewOperationSet returns a set holding ops.
func NewOperationSet(ops ...Operation) OperationSet {
	s := make(OperationSet, len(ops))
	for _, op := range ops {
		s[op] = struct{}{}
	}
	return s
}

// Contains reports whether op is in the set.
func (s OperationSet) Contains(op Operation) bool {
	_, ok := s[op]
	return ok
}
