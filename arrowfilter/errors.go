package arrowfilter

import "errors"

var (
	// ErrUnknownColumn is returned when a column index is outside the column
	// list or the batch has no field of that name.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnsupported is returned for predicates the evaluator cannot
	// compute (a column type without comparable values, LIKE on a non
	// string column, pattern on the column side).
	ErrUnsupported = errors.New("unsupported predicate")
)
