package scan

import "errors"

var (
	// ErrUnsupportedSource is returned when a file extension maps to no
	// known grammar.
	ErrUnsupportedSource = errors.New("unsupported source file")
	// ErrInvalidLiteral is returned when a string literal cannot be
	// interpreted.
	ErrInvalidLiteral = errors.New("invalid string literal")
)
