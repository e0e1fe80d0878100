package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/mt"
)

var (
	translateLang     string
	translateProvider string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Fill missing translations with machine translation",
	Long: `Translate sends the untranslated entries of one language's catalog
to the configured machine translation provider and writes the filled catalog
back. Entries that already carry a translation are never overwritten; model
output that drops a placeholder is discarded.`,
	Args: cobra.NoArgs,
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVar(&translateLang, "lang", "", "target language (required)")
	translateCmd.Flags().StringVar(&translateProvider, "provider", "", "override the configured provider")
	_ = translateCmd.MarkFlagRequired("lang")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	if cfg.MT == nil {
		return errors.New("no mt section in the project file (or LANGPACK_MT_* environment)")
	}
	mtCfg := mt.Config{Provider: cfg.MT.Provider, Model: cfg.MT.Model, APIKey: cfg.MT.APIKey}
	if translateProvider != "" {
		mtCfg.Provider = translateProvider
	}
	provider, err := mt.Factory(ctx, mtCfg)
	if err != nil {
		return err
	}

	tag, err := language.Parse(translateLang)
	if err != nil {
		return fmt.Errorf("invalid language %q: %v", translateLang, err)
	}
	lang := tag.String()

	set, err := catalog.LoadSet(cfg.Catalogs)
	if err != nil {
		return err
	}
	cat, ok := set.Get(lang)
	if !ok {
		return fmt.Errorf("no catalog for %s, run extract --merge first", lang)
	}

	missing := missingKeys(cat)
	if len(missing) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing to translate\n", lang)
		return nil
	}

	applied := 0
	for start := 0; start < len(missing); start += cfg.MT.BatchSize {
		end := min(start+cfg.MT.BatchSize, len(missing))
		translations, err := mt.Translate(ctx, provider, mt.Request{
			SourceLanguage: cfg.Source,
			TargetLanguage: lang,
			Keys:           missing[start:end],
		})
		if err != nil {
			return err
		}
		applied += mt.Apply(cat, translations)
		log.Info("translated batch",
			logger.Language(lang), logger.Count(len(translations)))
	}

	path := catalogPath(cfg, lang, cat, ".json")
	if err := writeCatalog(cat, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: filled %d of %d missing entries -> %s\n",
		lang, applied, len(missing), filepath.ToSlash(path))
	return nil
}

// missingKeys returns the distinct source strings of untranslated entries.
func missingKeys(c *catalog.Catalog) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, e := range c.All() {
		if e.Translated() {
			continue
		}
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		keys = append(keys, e.Key)
	}
	return keys
}
