package project

import "errors"

var (
	// ErrInvalidConfig is returned when a project file parses but holds
	// values the toolchain cannot work with.
	ErrInvalidConfig = errors.New("invalid project config")
	// ErrMissingSection is returned when a command needs an optional
	// config section that is absent.
	ErrMissingSection = errors.New("config section not set")
)
