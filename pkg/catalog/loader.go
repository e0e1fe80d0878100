package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// UnmarshalFunc parses catalog file data into ordered entries. Formats that
// declare their own plural rule, such as PO headers, return it alongside the
// entries; otherwise the rule stays nil and per-language defaults apply.
type UnmarshalFunc func(data []byte) ([]Entry, *PluralRule, error)

var (
	formatsMu sync.RWMutex
	formats   = map[string]UnmarshalFunc{}
)

// RegisterFormat makes a file format available to Load under an extension
// with a leading dot. JSON, YAML, TOML and CSV register themselves; the
// catalog/po subpackage registers ".po" and ".pot" on import.
func RegisterFormat(ext string, fn UnmarshalFunc) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formats[strings.ToLower(ext)] = fn
}

func lookupFormat(ext string) (UnmarshalFunc, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	fn, ok := formats[strings.ToLower(ext)]
	return fn, ok
}

func init() {
	RegisterFormat(".json", unmarshalJSON)
	RegisterFormat(".yaml", unmarshalYAML)
	RegisterFormat(".yml", unmarshalYAML)
	RegisterFormat(".toml", unmarshalTOML)
	RegisterFormat(".csv", unmarshalCSV)
}

// LanguageFromPath derives the catalog language from a file path. It tries
// the inner extension (messages.fi.json), then the file stem (fi.json), then
// the parent directory (locales/fi/messages.json). Underscores are accepted
// in place of hyphens, so en_US.po resolves to en-US.
func LanguageFromPath(path string) (language.Tag, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var candidates []string
	if i := strings.LastIndex(stem, "."); i >= 0 {
		candidates = append(candidates, stem[i+1:])
	} else {
		candidates = append(candidates, stem)
	}
	candidates = append(candidates, filepath.Base(filepath.Dir(path)))

	for _, cand := range candidates {
		cand = strings.ReplaceAll(cand, "_", "-")
		if cand == "" || cand == "." {
			continue
		}
		if tag, err := language.Parse(cand); err == nil && tag != language.Und {
			return tag, nil
		}
	}
	return language.Und, fmt.Errorf("%w: %s", ErrUnknownLanguage, path)
}

// Load reads a catalog file, deriving the language from the path. Entries
// with plural forms but no singular translation take their first plural form
// as the singular, matching how gettext treats msgstr[0].
func Load(path string) (*Catalog, error) {
	tag, err := LanguageFromPath(path)
	if err != nil {
		return nil, err
	}
	return LoadAs(path, tag)
}

// ParseEntries reads a catalog file without collapsing it into a catalog,
// preserving duplicate keys in file order. Load builds on it; linters use it
// to see what a map lookup would hide.
func ParseEntries(path string) ([]Entry, *PluralRule, error) {
	fn, ok := lookupFormat(filepath.Ext(path))
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("%s: %w: empty file", path, ErrInvalidCatalog)
	}
	entries, rule, err := fn(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, rule, nil
}

// LoadAs reads a catalog file for an explicitly chosen language.
func LoadAs(path string, lang language.Tag) (*Catalog, error) {
	entries, rule, err := ParseEntries(path)
	if err != nil {
		return nil, err
	}

	c := New(lang)
	c.Path = path
	if rule != nil {
		c.Plural = *rule
	}
	for _, e := range entries {
		if e.File == "" {
			e.File = path
		}
		if e.Translation == "" && len(e.Plurals) > 0 {
			e.Translation = e.Plurals[0]
		}
		c.Set(e)
	}
	return c, nil
}

// Discover expands glob patterns into catalog file paths, keeping pattern
// order, dropping duplicates and files without a registered format.
func Discover(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad catalog pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := lookupFormat(filepath.Ext(m)); !ok {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	return paths, nil
}

// LoadAll discovers and loads every catalog matching the patterns, grouped
// by canonical language tag. Multiple files for the same language merge in
// discovery order, later files winning on key collisions.
func LoadAll(patterns []string) (map[string]*Catalog, error) {
	paths, err := Discover(patterns)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Catalog)
	for _, path := range paths {
		c, err := Load(path)
		if err != nil {
			return nil, err
		}
		if existing, ok := out[c.Lang()]; ok {
			existing.Merge(c)
		} else {
			out[c.Lang()] = c
		}
	}
	return out, nil
}

func unmarshalJSON(data []byte) ([]Entry, *PluralRule, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Join(ErrInvalidCatalog, err)
	}
	entries, err := flattenMap("", raw)
	return entries, nil, err
}

func unmarshalYAML(data []byte) ([]Entry, *PluralRule, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Join(ErrInvalidCatalog, err)
	}
	entries, err := flattenMap("", raw)
	return entries, nil, err
}

func unmarshalTOML(data []byte) ([]Entry, *PluralRule, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Join(ErrInvalidCatalog, err)
	}
	entries, err := flattenMap("", raw)
	return entries, nil, err
}

func unmarshalCSV(data []byte) ([]Entry, *PluralRule, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var entries []Entry
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, errors.Join(ErrInvalidCatalog, err)
		}
		line, _ := r.FieldPos(0)
		isHeader := first && len(rec) > 1 &&
			strings.EqualFold(strings.TrimSpace(rec[0]), "key") &&
			strings.EqualFold(strings.TrimSpace(rec[1]), "translation")
		first = false
		if isHeader {
			continue
		}
		key := rec[0]
		if strings.TrimSpace(key) == "" {
			continue
		}
		e := Entry{Key: key, Line: line}
		switch {
		case len(rec) == 2:
			e.Translation = rec[1]
		case len(rec) > 2:
			e.Plurals = rec[1:]
		}
		entries = append(entries, e)
	}
	return entries, nil, nil
}

// flattenMap turns nested maps into dot-joined keys, visiting keys in sorted
// order so entry order does not depend on map iteration.
func flattenMap(prefix string, m map[string]any) ([]Entry, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []Entry
	for _, k := range keys {
		if k == "" {
			continue
		}
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch val := m[k].(type) {
		case string:
			entries = append(entries, Entry{Key: full, Translation: val})
		case map[string]any:
			nested, err := flattenMap(full, val)
			if err != nil {
				return nil, err
			}
			entries = append(entries, nested...)
		case []any:
			plurals := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: key %q has a non-string plural form", ErrInvalidCatalog, full)
				}
				plurals = append(plurals, s)
			}
			entries = append(entries, Entry{Key: full, Plurals: plurals})
		case bool, int, int64, float64:
			entries = append(entries, Entry{Key: full, Translation: fmt.Sprint(val)})
		default:
			return nil, fmt.Errorf("%w: key %q has unsupported value type %T", ErrInvalidCatalog, full, m[k])
		}
	}
	return entries, nil
}
