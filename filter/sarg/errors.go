package sarg

import "errors"

var (
	// ErrEmptyExpression is returned when building or decoding a search
	// argument without an expression.
	ErrEmptyExpression = errors.New("search argument has no expression")

	// ErrMalformedExpression reports an expression with a wrong number of
	// children or a dangling leaf reference.
	ErrMalformedExpression = errors.New("malformed search argument")

	// ErrInvalidLiteral reports text that does not parse as the leaf type.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrUnbalanced is returned by Builder.Build when Start and End calls do
	// not match.
	ErrUnbalanced = errors.New("unbalanced builder")
)
