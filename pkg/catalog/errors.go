package catalog

import "errors"

var (
	// ErrUnsupportedFormat is returned when a catalog file has an extension
	// no registered format can parse.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrInvalidCatalog is returned when a catalog file parses but holds
	// values that cannot be represented as entries.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUnknownLanguage is returned when no language tag can be derived
	// from a catalog file path.
	ErrUnknownLanguage = errors.New("cannot determine catalog language")
	// ErrUnknownPluralFormula is returned when a plural formula does not
	// belong to any known formula family.
	ErrUnknownPluralFormula = errors.New("unknown plural formula")
	// ErrInvalidPluralForms is returned when a Plural-Forms header cannot
	// be parsed.
	ErrInvalidPluralForms = errors.New("invalid plural forms header")
)
