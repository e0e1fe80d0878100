// Package codegen writes a Go package of typed message key constants and
// embedded translations, generated from the loaded catalogs. The output is
// deterministic for a given catalog set so regenerating without catalog
// changes produces no diff beyond the generation timestamp comment.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/iancoleman/strcase"

	"github.com/dmitrymomot/langpack/pkg/catalog"
)

// DefaultPackage is the generated package name when none is given.
const DefaultPackage = "messages"

var (
	// ErrNoKeys is returned when the catalog set has no entries to
	// generate constants for.
	ErrNoKeys = errors.New("no catalog entries to generate constants for")

	// ErrBadPackageName is returned for package names that are not valid
	// Go identifiers.
	ErrBadPackageName = errors.New("package name is not a valid Go identifier")
)

type constant struct {
	Name  string
	Value string
}

type pair struct {
	Key   string
	Value string
}

type languageBlock struct {
	Tag   string
	Pairs []pair
}

type templateValues struct {
	Timestamp time.Time
	Package   string
	Keys      []constant
	Languages []languageBlock
}

var packageTemplate = template.Must(template.New("package").Parse(`// Code generated by langpack. DO NOT EDIT.
// Generated at: {{ .Timestamp.Format "2006-01-02T15:04:05Z07:00" }}

package {{ .Package }}

// Key identifies a source-language message present in the catalogs.
type Key = string

// Message keys.
const (
{{- range .Keys }}
	{{ .Name }} Key = {{ .Value }}
{{- end }}
)

var catalogs = map[string]map[string]string{
{{- range .Languages }}
	{{ .Tag }}: {
{{- range .Pairs }}
		{{ .Key }}: {{ .Value }},
{{- end }}
	},
{{- end }}
}

// Catalogs returns the embedded translations keyed by language tag.
func Catalogs() map[string]map[string]string {
	return catalogs
}

// Lookup returns the translation of key in lang, falling back to the key
// itself when the language or the message is missing.
func Lookup(lang string, key Key) string {
	if m, ok := catalogs[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
`))

// Generate writes <outDir>/<pkgName>.go exposing one exported constant per
// catalog key plus the embedded flat translations. It returns the path of
// the written file.
func Generate(set *catalog.Set, pkgName, outDir string) (string, error) {
	if pkgName == "" {
		pkgName = DefaultPackage
	}
	if !validPackageName(pkgName) {
		return "", fmt.Errorf("%w: %q", ErrBadPackageName, pkgName)
	}

	ids := collectIDs(set)
	if len(ids) == 0 {
		return "", ErrNoKeys
	}

	values := templateValues{
		Timestamp: time.Now().UTC(),
		Package:   pkgName,
		Keys:      constants(ids),
		Languages: languages(set),
	}

	var buf bytes.Buffer
	if err := packageTemplate.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("render generated package: %w", err)
	}
	code, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("format generated package: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(outDir, pkgName+".go")
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return "", fmt.Errorf("write generated package: %w", err)
	}
	return path, nil
}

// collectIDs returns the sorted union of entry identifiers across all
// languages of the set.
func collectIDs(set *catalog.Set) []string {
	seen := make(map[string]struct{})
	for _, lang := range set.Languages() {
		c, ok := set.Get(lang)
		if !ok {
			continue
		}
		for _, e := range c.All() {
			seen[e.ID()] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// constants names every identifier, suffixing collisions with a counter.
// Input order is sorted, so names are stable across runs.
func constants(ids []string) []constant {
	taken := make(map[string]bool, len(ids))
	out := make([]constant, 0, len(ids))
	for _, id := range ids {
		name := identFor(id)
		if taken[name] {
			for i := 2; ; i++ {
				candidate := name + strconv.Itoa(i)
				if !taken[candidate] {
					name = candidate
					break
				}
			}
		}
		taken[name] = true
		out = append(out, constant{Name: name, Value: strconv.Quote(id)})
	}
	return out
}

// identFor derives an exported Go identifier from a message identifier.
// Punctuation and placeholder syntax become word boundaries, a context
// prefix contributes its own words.
func identFor(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	name := strcase.ToCamel(b.String())
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "Key" + name
	}
	return name
}

func languages(set *catalog.Set) []languageBlock {
	blocks := make([]languageBlock, 0, set.Len())
	for _, lang := range set.Languages() {
		c, ok := set.Get(lang)
		if !ok {
			continue
		}
		flat := catalog.FlatMap(c)
		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]pair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, pair{Key: strconv.Quote(k), Value: strconv.Quote(flat[k])})
		}
		blocks = append(blocks, languageBlock{Tag: strconv.Quote(lang), Pairs: pairs})
	}
	return blocks
}

// validPackageName accepts lowercase Go identifiers, the usual convention
// for package names.
func validPackageName(name string) bool {
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return name != ""
}
