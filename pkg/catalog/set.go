package catalog

import "sort"

// Set groups the catalogs of a project by canonical language tag. The zero
// value is not usable; construct with NewSet or LoadSet.
type Set struct {
	catalogs map[string]*Catalog
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{catalogs: make(map[string]*Catalog)}
}

// LoadSet discovers and loads every catalog matching the patterns into a set.
func LoadSet(patterns []string) (*Set, error) {
	catalogs, err := LoadAll(patterns)
	if err != nil {
		return nil, err
	}
	return &Set{catalogs: catalogs}, nil
}

// Add inserts a catalog, merging with an already present catalog for the
// same language.
func (s *Set) Add(c *Catalog) {
	if existing, ok := s.catalogs[c.Lang()]; ok {
		existing.Merge(c)
		return
	}
	s.catalogs[c.Lang()] = c
}

// Get returns the catalog for a language tag.
func (s *Set) Get(lang string) (*Catalog, bool) {
	c, ok := s.catalogs[lang]
	return c, ok
}

// Lookup returns the singular translation of an identifier in a language.
func (s *Set) Lookup(lang, id string) (string, bool) {
	c, ok := s.catalogs[lang]
	if !ok {
		return "", false
	}
	return c.Translate(id)
}

// Languages returns the sorted language tags of the set.
func (s *Set) Languages() []string {
	langs := make([]string, 0, len(s.catalogs))
	for lang := range s.catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Len returns the number of languages in the set.
func (s *Set) Len() int {
	return len(s.catalogs)
}

// Missing returns the identifiers, in input order, that the language has no
// usable translation for. An unknown language misses everything.
func (s *Set) Missing(lang string, ids []string) []string {
	c, ok := s.catalogs[lang]
	if !ok {
		missing := make([]string, len(ids))
		copy(missing, ids)
		return missing
	}
	var missing []string
	for _, id := range ids {
		if e, ok := c.Get(id); !ok || !e.Translated() {
			missing = append(missing, id)
		}
	}
	return missing
}
