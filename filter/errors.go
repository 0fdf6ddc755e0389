package filter

import (
	"errors"
	"fmt"
)

// Syntax error categories. A *FilterSyntaxError unwraps to one of these.
var (
	ErrEmptyResult     = errors.New("filter produced no result")
	ErrNumericOverflow = errors.New("numeric value out of range")
	ErrUnknownOpcode   = errors.New("unknown operator code")
	ErrLeftoverStack   = errors.New("filter left more than one expression")
	ErrUnexpectedChar  = errors.New("unexpected character")
	ErrUnexpectedEnd   = errors.New("unexpected end of filter")
	ErrUnknownDataType = errors.New("unknown data type")
	ErrStackUnderflow  = errors.New("missing operand")
	ErrInvalidOperand  = errors.New("invalid operand")
)

// Configuration errors.
var (
	// ErrNoPasses is returned by Traverse when no pass is supplied.
	ErrNoPasses = errors.New("at least one pass is required")

	// ErrMalformedTree is the category of *TreeShapeError.
	ErrMalformedTree = errors.New("malformed filter tree")
)

// FilterSyntaxError reports malformed wire input. Position is the zero-based
// byte offset in the input where the problem was detected.
type FilterSyntaxError struct {
	Kind     error
	Position int
	Msg      string
}

func (e *FilterSyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("filter syntax error at %d: %v", e.Position, e.Kind)
	}
	return fmt.Sprintf("filter syntax error at %d: %v: %s", e.Position, e.Kind, e.Msg)
}

// Unwrap returns the error category.
func (e *FilterSyntaxError) Unwrap() error { return e.Kind }

// TreeShapeError indicates a node whose children violate the shape rules.
type TreeShapeError struct {
	Op  Operation
	Msg string
}

func (e *TreeShapeError) Error() string {
	return "malformed filter tree: " + e.Msg
}

// Unwrap returns ErrMalformedTree.
func (e *TreeShapeError) Unwrap() error { return ErrMalformedTree }
