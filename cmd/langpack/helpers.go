package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/catalog/po"
	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/project"
	"github.com/dmitrymomot/langpack/pkg/scan"
	"github.com/dmitrymomot/langpack/pkg/watch"
)

// loadProject reads the project file, falling back to defaults when no file
// exists and none was asked for explicitly. LANGPACK_* environment variables
// win over file values.
func loadProject() (*project.Config, error) {
	path := cfgFile
	explicit := path != ""
	if path == "" {
		path = project.DefaultConfigFile
	}

	cfg, err := project.Load(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, os.ErrNotExist):
		def := project.Default()
		cfg = &def
	default:
		return nil, err
	}

	if err := project.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runBuild loads the catalogs and runs the pipeline once.
func runBuild(ctx context.Context, cfg *project.Config, strict bool) (*catalog.Set, *build.Manifest, error) {
	set, err := catalog.LoadSet(cfg.Catalogs)
	if err != nil {
		return nil, nil, err
	}

	buildCfg := *cfg
	if strict {
		buildCfg.OnMissing = project.MissingError
	}

	man, err := build.New(&buildCfg, set, log).Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return set, man, nil
}

func printManifest(cmd *cobra.Command, man *build.Manifest, outDir string) {
	line := fmt.Sprintf("built %d artifacts for %d languages -> %s (%d bytes",
		len(man.Artifacts), len(man.Languages), outDir, man.TotalSize)
	if man.TotalMissing > 0 {
		line += fmt.Sprintf(", %d missing translations", man.TotalMissing)
	}
	fmt.Fprintln(cmd.OutOrStdout(), line+")")
}

// newScanner builds a scanner configured with the project's markers.
func newScanner(cfg *project.Config) *scan.Scanner {
	return scan.New(
		scan.WithSingularMarkers(cfg.Markers.Singular...),
		scan.WithPluralMarkers(cfg.Markers.Plural...),
		scan.WithLogger(log),
	)
}

// patternRoot returns the longest directory prefix of a glob pattern with no
// metacharacters.
func patternRoot(pattern string) string {
	dir := pattern
	for strings.ContainsAny(dir, "*?[") {
		dir = filepath.Dir(dir)
	}
	return dir
}

// watchRoots lists the existing directories the entry and catalog globs
// reach into.
func watchRoots(cfg *project.Config) []string {
	seen := make(map[string]struct{})
	var roots []string
	patterns := make([]string, 0, len(cfg.Entries)+len(cfg.Catalogs))
	patterns = append(patterns, cfg.Entries...)
	patterns = append(patterns, cfg.Catalogs...)
	for _, pattern := range patterns {
		root := patternRoot(pattern)
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		if _, err := os.Stat(root); err == nil {
			roots = append(roots, root)
		}
	}
	return roots
}

// newRebuildWatcher wires a watcher over the project's source and catalog
// roots. Changes under the output directory are ignored so a rebuild cannot
// retrigger itself.
func newRebuildWatcher(cfg *project.Config, rebuild func(context.Context) error) (*watch.Watcher, error) {
	outDir, err := filepath.Abs(cfg.Output)
	if err != nil {
		return nil, err
	}

	w, err := watch.New(func(ctx context.Context, paths []string) error {
		changed := 0
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil && underDir(abs, outDir) {
				continue
			}
			changed++
		}
		if changed == 0 {
			return nil
		}
		log.Info("change detected, rebuilding", logger.Count(changed))
		return rebuild(ctx)
	}, watch.WithLogger(log))
	if err != nil {
		return nil, err
	}

	for _, root := range watchRoots(cfg) {
		if err := w.Add(root); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func underDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// catalogDir is where pull and extract place new catalog files: the root of
// the first catalog glob.
func catalogDir(cfg *project.Config) string {
	return patternRoot(cfg.Catalogs[0])
}

// writeCatalog renders a catalog in the format its extension names. Only
// json and po round-trip; other readable formats cannot be written back.
func writeCatalog(c *catalog.Catalog, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = catalog.ExportJSON(c)
	case ".po", ".pot":
		data = po.Marshal(c)
	default:
		return fmt.Errorf("cannot write %s catalogs, use json or po", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// catalogPath returns where a language's catalog lives: the file it was
// loaded from, or a new file in the catalog directory.
func catalogPath(cfg *project.Config, lang string, existing *catalog.Catalog, ext string) string {
	if existing != nil && existing.Path != "" {
		return existing.Path
	}
	return filepath.Join(catalogDir(cfg), lang+ext)
}
