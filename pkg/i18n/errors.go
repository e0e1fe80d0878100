package i18n

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSet is returned when New is called without a catalog set.
	ErrNilSet = errors.New("catalog set is nil")

	// ErrFailedToMarshalJSON is returned when a catalog export cannot be
	// serialized.
	ErrFailedToMarshalJSON = errors.New("failed to marshal translations to JSON")
)

// ErrLanguageNotSupported indicates a request for a language that has no
// catalog loaded.
type ErrLanguageNotSupported struct {
	Lang string
}

func (e ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("language not supported: %s", e.Lang)
}
