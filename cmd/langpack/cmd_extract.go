package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/catalog/po"
	"github.com/dmitrymomot/langpack/pkg/project"
	"github.com/dmitrymomot/langpack/pkg/scan"
)

var (
	extractFormat string
	extractMerge  bool
	extractPrune  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract translation keys from the sources",
	Long: `Extract scans the entry sources for marker calls and prints the
resulting catalog template. With --merge the per-language catalog files are
updated in place instead: new keys are added untranslated, existing
translations are kept, and keys no longer used by the sources are dropped
only when --prune is also given.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractFormat, "format", "json", "catalog format: json or po")
	extractCmd.Flags().BoolVar(&extractMerge, "merge", false, "update the per-language catalog files")
	extractCmd.Flags().BoolVar(&extractPrune, "prune", false, "with --merge, drop keys missing from the sources")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	var ext string
	switch extractFormat {
	case "json":
		ext = ".json"
	case "po":
		ext = ".po"
	default:
		return fmt.Errorf("unknown format %q (want json or po)", extractFormat)
	}

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	markers, err := newScanner(cfg).ScanGlobs(ctx, cfg.Entries)
	if err != nil {
		return err
	}
	if len(markers) == 0 {
		log.Warn("no marker calls found in the sources")
	}

	template := templateCatalog(language.MustParse(cfg.Source), markers)

	if !extractMerge {
		data, err := renderTemplate(template, extractFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	set, err := catalog.LoadSet(cfg.Catalogs)
	if err != nil {
		return err
	}
	langs := targetLanguages(cfg, set)
	if len(langs) == 0 {
		return fmt.Errorf("no target languages: add catalog files under %s or list languages in the project file", catalogDir(cfg))
	}

	for _, lang := range langs {
		existing, _ := set.Get(lang)
		merged, st, err := mergeCatalog(lang, existing, template, extractPrune)
		if err != nil {
			return err
		}
		path := catalogPath(cfg, lang, existing, ext)
		if err := writeCatalog(merged, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d added, %d kept, %d pruned -> %s\n",
			lang, st.added, st.kept, st.pruned, path)
	}
	return nil
}

// templateCatalog collapses scanned markers into one entry per key. Dynamic
// markers carry no key and are skipped; the linter reports them.
func templateCatalog(source language.Tag, markers []scan.Marker) *catalog.Catalog {
	c := catalog.New(source)
	for _, m := range markers {
		if m.Dynamic || m.Key == "" {
			continue
		}
		e := catalog.Entry{Key: m.Key}
		if m.Plural {
			e.PluralKey = m.PluralKey
		}
		if old, ok := c.Get(e.ID()); ok {
			// A plural use of a key wins over a singular use.
			if old.PluralKey != "" && e.PluralKey == "" {
				continue
			}
		}
		c.Set(e)
	}
	return c
}

func renderTemplate(c *catalog.Catalog, format string) ([]byte, error) {
	if format == "po" {
		return po.Marshal(c), nil
	}
	return catalog.ExportJSON(c)
}

type mergeStats struct {
	added  int
	kept   int
	pruned int
}

// mergeCatalog folds the extracted template into a language's catalog
// without losing translations.
func mergeCatalog(lang string, existing *catalog.Catalog, template *catalog.Catalog, prune bool) (*catalog.Catalog, mergeStats, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, mergeStats{}, fmt.Errorf("invalid language %q: %v", lang, err)
	}

	merged := catalog.New(tag)
	var st mergeStats

	sourceKeys := make(map[string]struct{})
	for _, t := range template.All() {
		sourceKeys[t.Key] = struct{}{}
		if existing != nil {
			if old, ok := existing.Get(t.ID()); ok {
				if t.PluralKey != "" {
					old.PluralKey = t.PluralKey
				}
				merged.Set(old)
				st.kept++
				continue
			}
		}
		merged.Set(t)
		st.added++
	}

	if existing != nil {
		merged.Plural = existing.Plural
		for _, old := range existing.All() {
			if merged.Has(old.ID()) {
				continue
			}
			if prune {
				if _, used := sourceKeys[old.Key]; !used {
					st.pruned++
					continue
				}
			}
			merged.Set(old)
			st.kept++
		}
	}
	return merged, st, nil
}

// targetLanguages is every language extract maintains a catalog for: those
// with catalog files plus those listed in the project, minus the source.
func targetLanguages(cfg *project.Config, set *catalog.Set) []string {
	seen := make(map[string]struct{})
	var langs []string
	candidates := append(set.Languages(), cfg.Languages...)
	for _, lang := range candidates {
		if lang == cfg.Source {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
