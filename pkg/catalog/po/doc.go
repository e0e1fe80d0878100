// Package po reads and writes gettext PO and POT files as catalog entries.
//
// Importing the package registers the ".po" and ".pot" extensions with the
// catalog format registry, so catalog.Load and catalog.LoadAll pick up PO
// files next to JSON and YAML ones:
//
//	import _ "github.com/dmitrymomot/langpack/pkg/catalog/po"
//
//	catalogs, err := catalog.LoadAll([]string{"locales/*.po"})
//
// The parser handles the PO constructs the toolchain produces and consumes:
// msgctxt, msgid, msgid_plural, indexed msgstr forms, string continuations,
// fuzzy flags, reference comments and the header entry. The Plural-Forms
// header becomes the plural rule of the loaded catalog. Obsolete entries
// (#~) and previous-msgid comments (#|) are skipped.
//
// Marshal is the inverse: it renders a catalog as a PO file with a generated
// header, one entry per key in catalog order. Catalogs without translations
// render as templates with empty msgstr, which is how the extract command
// writes POT files.
package po
