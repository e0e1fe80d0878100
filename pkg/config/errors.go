package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed
	// into the target struct.
	ErrParsingConfig = errors.New("failed to parse config")
	// ErrConfigNotLoaded is returned when a cached configuration cannot be
	// retrieved after a load attempt.
	ErrConfigNotLoaded = errors.New("config not loaded")
	// ErrNilPointer is returned when a nil pointer is passed to Load.
	ErrNilPointer = errors.New("nil pointer passed to config loader")
)
