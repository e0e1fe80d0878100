package preview

import "errors"

var (
	// ErrNoOutputDir is returned when the server is created without a build
	// directory to serve.
	ErrNoOutputDir = errors.New("output directory is required")
)
