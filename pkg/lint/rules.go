package lint

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/project"
	"github.com/dmitrymomot/langpack/pkg/scan"
)

// nonLatin matches any rune outside the Latin script and the script-neutral
// classes, the signal for copy that should have gone through a catalog.
var nonLatin = regexp.MustCompile(`[^\p{Latin}\p{Common}\p{Inherited}]`)

// Option configures a lint run.
type Option func(*runner)

// WithLogger sets the logger for scan diagnostics during the run.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

type runner struct {
	cfg     *project.Config
	set     *catalog.Set
	markers []scan.Marker
	log     *slog.Logger
	report  *Report
	allow   map[string]struct{}
}

// Run executes every rule over the project. Catalog files are re-read from
// disk so duplicate keys and per-entry positions survive the map collapsing
// a loaded set performs; unreadable or invalid files become findings instead
// of aborting the run.
func Run(ctx context.Context, cfg *project.Config, set *catalog.Set, markers []scan.Marker, opts ...Option) *Report {
	r := &runner{
		cfg:     cfg,
		set:     set,
		markers: markers,
		log:     logger.Discard(),
		report:  &Report{Findings: []Finding{}},
		allow:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, lang := range cfg.Check.AllowIncomplete {
		if tag, err := language.Parse(lang); err == nil {
			r.allow[tag.String()] = struct{}{}
		} else {
			r.allow[lang] = struct{}{}
		}
	}

	files := r.catalogFiles()
	r.checkDynamicKeys()
	r.checkCatalogEntries(files)
	r.checkCoverage()
	r.checkStrayLiterals(ctx)

	r.report.sort()
	return r.report
}

// catalogFile is one catalog on disk before merging, duplicates included.
type catalogFile struct {
	path    string
	lang    string
	entries []catalog.Entry
	rule    catalog.PluralRule
}

func (r *runner) catalogFiles() []catalogFile {
	paths, err := catalog.Discover(r.cfg.Catalogs)
	if err != nil {
		r.report.add(Finding{
			Rule:     RuleInvalidCatalog,
			Severity: SeverityError,
			Message:  err.Error(),
		})
		return nil
	}
	var files []catalogFile
	for _, path := range paths {
		tag, err := catalog.LanguageFromPath(path)
		if err != nil {
			// Templates carry no language on purpose.
			if strings.EqualFold(filepath.Ext(path), ".pot") {
				continue
			}
			r.report.add(Finding{
				Rule:     RuleInvalidCatalog,
				Severity: SeverityWarning,
				Message:  "cannot derive a language from the file name",
				File:     path,
			})
			continue
		}
		entries, rule, err := catalog.ParseEntries(path)
		if err != nil {
			r.report.add(Finding{
				Rule:     RuleInvalidCatalog,
				Severity: SeverityError,
				Message:  err.Error(),
				File:     path,
			})
			continue
		}
		cf := catalogFile{path: path, lang: tag.String(), entries: entries}
		if rule != nil {
			cf.rule = *rule
		} else {
			cf.rule = catalog.PluralRuleFor(tag)
		}
		files = append(files, cf)
	}
	return files
}

func (r *runner) checkDynamicKeys() {
	for _, m := range r.markers {
		if !m.Dynamic {
			continue
		}
		expr := m.Expr
		if expr == "" {
			expr = m.Func
		}
		r.report.add(Finding{
			Rule:     RuleDynamicKey,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%s key %s is not a string literal and cannot be built statically", m.Func, ellipsize(expr, 40)),
			File:     m.File,
			Line:     m.Line,
			Col:      m.Col,
		})
	}
}

func (r *runner) checkCatalogEntries(files []catalogFile) {
	type position struct {
		file string
		line int
	}
	first := make(map[string]position)
	for _, cf := range files {
		for _, e := range cf.entries {
			id := e.ID()
			dupID := cf.lang + "\x00" + id
			if prev, dup := first[dupID]; dup {
				at := prev.file
				if prev.line > 0 {
					at = fmt.Sprintf("%s:%d", prev.file, prev.line)
				}
				r.report.add(Finding{
					Rule:     RuleDuplicateKey,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("%q for %s is already defined at %s; the later entry wins", e.Key, cf.lang, at),
					File:     cf.path,
					Line:     e.Line,
					Language: cf.lang,
					Key:      id,
				})
			} else {
				first[dupID] = position{file: cf.path, line: e.Line}
			}
			if !e.Translated() {
				r.report.add(Finding{
					Rule:     RuleEmptyTranslation,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("%q has an empty %s translation", e.Key, cf.lang),
					File:     cf.path,
					Line:     e.Line,
					Language: cf.lang,
					Key:      id,
				})
			}
			if e.Fuzzy {
				r.report.add(Finding{
					Rule:     RuleFuzzyEntry,
					Severity: SeverityInfo,
					Message:  fmt.Sprintf("%q is flagged fuzzy and needs review", e.Key),
					File:     cf.path,
					Line:     e.Line,
					Language: cf.lang,
					Key:      id,
				})
			}
			if len(e.Plurals) > 0 && len(e.Plurals) != cf.rule.NPlurals {
				r.report.add(Finding{
					Rule:     RulePluralArity,
					Severity: SeverityError,
					Message:  fmt.Sprintf("%q has %d plural forms, %s needs %d", e.Key, len(e.Plurals), cf.lang, cf.rule.NPlurals),
					File:     cf.path,
					Line:     e.Line,
					Language: cf.lang,
					Key:      id,
				})
			}
		}
	}
}

// checkCoverage pairs markers with catalogs in both directions: every literal
// marker key must exist in every target catalog, every non-context entry must
// be referenced by some marker.
func (r *runner) checkCoverage() {
	used := make(map[string]scan.Marker)
	var keys []string
	for _, m := range r.markers {
		if m.Dynamic {
			continue
		}
		if _, seen := used[m.Key]; !seen {
			used[m.Key] = m
			keys = append(keys, m.Key)
		}
	}

	for _, lang := range r.targets() {
		cat, _ := r.set.Get(lang)
		sev := SeverityError
		if _, ok := r.allow[lang]; ok {
			sev = SeverityWarning
		}
		for _, key := range keys {
			if cat != nil && cat.Has(key) {
				continue
			}
			m := used[key]
			r.report.add(Finding{
				Rule:     RuleMissingTranslation,
				Severity: sev,
				Message:  fmt.Sprintf("%q is not in the %s catalog", key, lang),
				File:     m.File,
				Line:     m.Line,
				Col:      m.Col,
				Language: lang,
				Key:      key,
			})
		}
	}

	for _, lang := range r.set.Languages() {
		cat, ok := r.set.Get(lang)
		if !ok {
			continue
		}
		for _, e := range cat.All() {
			// Context entries serve the runtime translator, not markers.
			if e.Context != "" {
				continue
			}
			if _, ok := used[e.Key]; ok {
				continue
			}
			r.report.add(Finding{
				Rule:     RuleUnusedEntry,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%q in the %s catalog is never referenced by a marker", e.Key, lang),
				File:     e.File,
				Line:     e.Line,
				Language: lang,
				Key:      e.ID(),
			})
		}
	}
}

func (r *runner) checkStrayLiterals(ctx context.Context) {
	opts := []scan.Option{scan.WithLogger(r.log)}
	if len(r.cfg.Markers.Singular) > 0 {
		opts = append(opts, scan.WithSingularMarkers(r.cfg.Markers.Singular...))
	}
	if len(r.cfg.Markers.Plural) > 0 {
		opts = append(opts, scan.WithPluralMarkers(r.cfg.Markers.Plural...))
	}
	literals, err := scan.New(opts...).LiteralGlobs(ctx, r.cfg.Entries)
	if err != nil {
		r.log.WarnContext(ctx, "stray literal scan failed", logger.Error(err))
		return
	}
	for _, lit := range literals {
		if !nonLatin.MatchString(lit.Text) {
			continue
		}
		r.report.add(Finding{
			Rule:     RuleStrayLiteral,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("hardcoded text %q outside any marker", ellipsize(lit.Text, 40)),
			File:     lit.File,
			Line:     lit.Line,
			Col:      lit.Col,
		})
	}
}

// targets lists the languages coverage is checked against: the configured
// ones, or every loaded catalog, never the source language.
func (r *runner) targets() []string {
	langs := r.cfg.Languages
	if len(langs) == 0 {
		langs = r.set.Languages()
	}
	seen := make(map[string]struct{})
	var out []string
	for _, lang := range langs {
		if lang == "" || lang == r.cfg.Source {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out
}

func ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
