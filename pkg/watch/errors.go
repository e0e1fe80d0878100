package watch

import "errors"

// ErrNilCallback is returned by New when no rebuild callback is given.
var ErrNilCallback = errors.New("rebuild callback is required")
