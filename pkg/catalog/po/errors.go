package po

import "errors"

// ErrSyntax is returned when a PO file cannot be parsed. The wrapped message
// carries the offending line number.
var ErrSyntax = errors.New("po syntax error")
