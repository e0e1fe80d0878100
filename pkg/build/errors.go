package build

import "errors"

var (
	// ErrNoEntries is returned when the entry globs match no files.
	ErrNoEntries = errors.New("no entry files matched")
	// ErrMissingTranslations is returned under the error missing policy
	// when any target language lacks translations for marker keys.
	ErrMissingTranslations = errors.New("missing translations")
	// ErrOutsideOutput is returned when a rendered output name escapes the
	// output directory.
	ErrOutsideOutput = errors.New("output path escapes output directory")
	// ErrNoManifest is returned when a build directory holds no readable
	// manifest.
	ErrNoManifest = errors.New("no build manifest")
)
