package catalog

import (
	"golang.org/x/text/language"
)

// ContextSeparator joins a context and a key into a single lookup identifier,
// following the gettext convention of an EOT byte between msgctxt and msgid.
const ContextSeparator = "\x04"

// Entry is a single translatable message within a catalog.
type Entry struct {
	// Key is the message identifier, normally the source-language text.
	Key string
	// Context disambiguates identical keys used in different places.
	Context string
	// PluralKey is the source-language plural form of pluralized keys,
	// carried as msgid_plural in PO files.
	PluralKey string
	// Translation is the translated singular form. Empty means untranslated.
	Translation string
	// Plurals holds translated plural forms ordered by the plural rule of
	// the catalog language. When non-empty it takes precedence over
	// Translation for pluralized lookups.
	Plurals []string
	// Fuzzy marks entries that need review before shipping, typically
	// imported from PO files carrying the fuzzy flag.
	Fuzzy bool
	// References lists source locations that use the key.
	References []string
	// File is the catalog file the entry was loaded from, empty for
	// entries built in memory.
	File string
	// Line is the position within File, zero when the format does not
	// track positions.
	Line int
}

// ID returns the lookup identifier for the entry, joining context and key
// with ContextSeparator when a context is present.
func (e Entry) ID() string {
	return ID(e.Context, e.Key)
}

// Translated reports whether the entry carries at least one non-empty
// translation form.
func (e Entry) Translated() bool {
	if e.Translation != "" {
		return true
	}
	for _, p := range e.Plurals {
		if p != "" {
			return true
		}
	}
	return false
}

// ID builds a lookup identifier from a context and a key.
func ID(context, key string) string {
	if context == "" {
		return key
	}
	return context + ContextSeparator + key
}

// SplitID is the inverse of ID.
func SplitID(id string) (context, key string) {
	for i := 0; i < len(id); i++ {
		if id[i] == ContextSeparator[0] {
			return id[:i], id[i+1:]
		}
	}
	return "", id
}

// Catalog holds the translations of a single language. It preserves the
// order entries were added in, so files written from a catalog stay diffable.
// A catalog is safe for concurrent reads but not for concurrent mutation.
type Catalog struct {
	// Language is the BCP 47 tag of the catalog.
	Language language.Tag
	// Plural describes how the language selects plural forms.
	Plural PluralRule
	// Path is the file the catalog was loaded from. When several files
	// merge into one catalog this is the first of them.
	Path string

	entries map[string]Entry
	order   []string
}

// New returns an empty catalog for the given language with the default
// plural rule of that language.
func New(lang language.Tag) *Catalog {
	return &Catalog{
		Language: lang,
		Plural:   PluralRuleFor(lang),
		entries:  make(map[string]Entry),
	}
}

// Lang returns the canonical string form of the catalog language.
func (c *Catalog) Lang() string {
	return c.Language.String()
}

// Set adds or replaces an entry. Replacing keeps the original position of
// the entry in the catalog order.
func (c *Catalog) Set(e Entry) {
	id := e.ID()
	if _, exists := c.entries[id]; !exists {
		c.order = append(c.order, id)
	}
	c.entries[id] = e
}

// Get returns the entry for a lookup identifier.
func (c *Catalog) Get(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Has reports whether the catalog contains an entry for the identifier.
func (c *Catalog) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// Delete removes an entry. Removing an absent identifier is a no-op.
func (c *Catalog) Delete(id string) {
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Keys returns the lookup identifiers in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// All returns the entries in catalog order.
func (c *Catalog) All() []Entry {
	all := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		all = append(all, c.entries[id])
	}
	return all
}

// Translate returns the singular translation for an identifier. The second
// return value is false when the entry is absent or untranslated.
func (c *Catalog) Translate(id string) (string, bool) {
	e, ok := c.entries[id]
	if !ok || e.Translation == "" {
		return "", false
	}
	return e.Translation, true
}

// TranslateN returns the plural form for an identifier and a count,
// evaluated with the plural rule of the catalog. It falls back to the
// singular translation when the entry has no plural forms, and reports
// false when the selected form is absent or empty.
func (c *Catalog) TranslateN(id string, n int) (string, bool) {
	e, ok := c.entries[id]
	if !ok {
		return "", false
	}
	if len(e.Plurals) == 0 {
		if e.Translation == "" {
			return "", false
		}
		return e.Translation, true
	}
	form, err := c.Plural.Evaluate(n)
	if err != nil || form >= len(e.Plurals) || e.Plurals[form] == "" {
		return "", false
	}
	return e.Plurals[form], true
}

// Merge copies the entries of other into c. Entries of other win on
// identifier collisions, matching the order catalogs are listed in.
func (c *Catalog) Merge(other *Catalog) {
	for _, e := range other.All() {
		c.Set(e)
	}
}
