// Package catalog provides the translation catalog model shared by the
// langpack toolchain.
//
// A catalog maps message keys to translations for a single language. Keys are
// the source-language strings themselves, optionally qualified by a context
// that disambiguates identical strings used in different places. Catalogs are
// loaded from JSON, YAML, TOML and CSV files out of the box; the catalog/po
// subpackage adds gettext PO support through the same format registry.
//
// # Loading
//
// Catalog files name their language in the file path: either the file stem
// (locales/fi.json), an inner extension (messages.fi.yaml) or the parent
// directory (locales/fi/messages.json). Discover expands glob patterns into
// concrete files and LoadAll groups them by language, merging multiple files
// for the same language in pattern order:
//
//	catalogs, err := catalog.LoadAll([]string{"locales/*.json", "locales/*/extra.yaml"})
//	if err != nil {
//		return err
//	}
//	fi := catalogs["fi"]
//	msg, ok := fi.Translate("Hello world") // "Terve maailma"
//
// Nested maps in JSON, YAML and TOML files flatten into dot-joined keys, so
// {"nav": {"home": "Etusivu"}} produces the key "nav.home". Array values
// carry plural forms ordered by the plural rule of the catalog language.
//
// # Plural rules
//
// Every catalog carries a PluralRule describing how its language selects a
// plural form for a count. Rules parse from gettext Plural-Forms headers and
// fall back to per-language defaults for formats without headers. Evaluation
// covers the common formula families; unknown formulas are reported rather
// than guessed.
//
// # Exporting
//
// ExportJSON writes the flat key-to-translation shape consumed by the build
// pipeline, and ExportJed writes the Jed locale_data document used by
// JavaScript runtimes.
package catalog
