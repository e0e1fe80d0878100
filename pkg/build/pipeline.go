package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/project"
	"github.com/dmitrymomot/langpack/pkg/scan"
)

// Pipeline renders every entry once per language and writes the results into
// the output directory.
type Pipeline struct {
	cfg *project.Config
	set *catalog.Set
	log *slog.Logger
}

// New assembles a pipeline from a validated config and a loaded catalog set.
// A nil logger discards output.
func New(cfg *project.Config, set *catalog.Set, log *slog.Logger) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{cfg: cfg, set: set, log: log}
}

// source is an entry with its bytes and markers, read and scanned once and
// shared read-only across the language goroutines.
type source struct {
	entryFile
	data    []byte
	markers []scan.Marker
	name    string
	ext     string
}

// rendered is one output held in memory until the missing policy for its
// language is settled.
type rendered struct {
	artifact Artifact
	data     []byte
}

// Run executes the build. The returned manifest is already written into the
// output directory. Input files are never modified, and with the error
// missing policy nothing is written at all when a miss exists.
func (p *Pipeline) Run(ctx context.Context) (*Manifest, error) {
	sources, err := p.collect(ctx)
	if err != nil {
		return nil, err
	}
	langs := p.languages()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	var outs []rendered
	var missed []string
	for _, lang := range langs {
		g.Go(func() error {
			langOuts, misses, err := p.renderLanguage(gctx, lang, sources)
			if err != nil {
				return err
			}
			mu.Lock()
			outs = append(outs, langOuts...)
			missed = append(missed, misses...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(missed) > 0 {
		sort.Strings(missed)
		return nil, fmt.Errorf("%w:\n  %s", ErrMissingTranslations, strings.Join(missed, "\n  "))
	}
	for _, out := range outs {
		if err := p.write(out); err != nil {
			return nil, err
		}
	}

	artifacts := collectArtifacts(outs)
	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].Language != artifacts[j].Language {
			return artifacts[i].Language < artifacts[j].Language
		}
		return artifacts[i].Entry < artifacts[j].Entry
	})
	m := &Manifest{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		SourceLanguage: p.cfg.Source,
		Languages:      langs,
		Artifacts:      artifacts,
	}
	for _, a := range artifacts {
		m.TotalSize += a.Size
		m.TotalMissing += a.Missing
	}
	if err := m.write(p.cfg.Output); err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "build complete",
		slog.Int("entries", len(sources)),
		slog.Int("languages", len(langs)),
		slog.Int("artifacts", len(artifacts)),
		slog.Int64("bytes", m.TotalSize))
	return m, nil
}

// collect expands the entry globs, reads each file and scans it once.
func (p *Pipeline) collect(ctx context.Context) ([]*source, error) {
	entries, err := expandEntries(p.cfg.Entries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %v", ErrNoEntries, []string(p.cfg.Entries))
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	// Entries may legitimately exceed the scanner's source-size guard, and
	// files without a grammar pass through verbatim.
	opts := []scan.Option{scan.WithMaxFileSize(0), scan.WithLogger(p.log)}
	if len(p.cfg.Markers.Singular) > 0 {
		opts = append(opts, scan.WithSingularMarkers(p.cfg.Markers.Singular...))
	}
	if len(p.cfg.Markers.Plural) > 0 {
		opts = append(opts, scan.WithPluralMarkers(p.cfg.Markers.Plural...))
	}
	markers, err := scan.Scan(ctx, paths, opts...)
	if err != nil {
		return nil, err
	}
	byFile := make(map[string][]scan.Marker)
	for _, m := range markers {
		byFile[m.File] = append(byFile[m.File], m)
	}
	sources := make([]*source, 0, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(e.path)
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", e.path, err)
		}
		ext := filepath.Ext(e.rel)
		sources = append(sources, &source{
			entryFile: e,
			data:      data,
			markers:   byFile[e.path],
			name:      strings.TrimSuffix(filepath.Base(e.rel), ext),
			ext:       ext,
		})
	}
	return sources, nil
}

// languages returns the build targets: the configured list or every catalog
// language, always including the source language, deduplicated and sorted.
func (p *Pipeline) languages() []string {
	langs := p.cfg.Languages
	if len(langs) == 0 {
		langs = p.set.Languages()
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(lang string) {
		if lang == "" {
			return
		}
		if _, dup := seen[lang]; dup {
			return
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	add(p.cfg.Source)
	for _, lang := range langs {
		add(lang)
	}
	sort.Strings(out)
	return out
}

// renderLanguage renders every source for one language. With the error
// policy the misses come back formatted and nothing is written for the
// language; otherwise misses were already logged per the policy.
func (p *Pipeline) renderLanguage(ctx context.Context, lang string, sources []*source) ([]rendered, []string, error) {
	cat, _ := p.set.Get(lang)
	r := newRenderer(lang, lang == p.cfg.Source, cat, p.log)
	var outs []rendered
	var missed []string
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		data, misses := r.render(src.data, src.markers)
		distinct := dedupe(misses)
		switch {
		case len(distinct) == 0:
		case p.cfg.OnMissing == project.MissingError:
			for _, key := range distinct {
				missed = append(missed, fmt.Sprintf("%s: %s: %q", lang, src.rel, key))
			}
		case p.cfg.OnMissing == project.MissingWarn:
			p.log.WarnContext(ctx, "missing translations, source strings used",
				logger.Language(lang), logger.Path(src.rel), logger.Count(len(distinct)))
		}
		sum := sha256.Sum256(data)
		digest := hex.EncodeToString(sum[:])
		name := project.RenderFilename(p.cfg.Filename, src.name, lang, src.ext, digest[:8])
		rel := name
		if dir := filepath.Dir(src.rel); dir != "." {
			rel = filepath.Join(dir, name)
		}
		outs = append(outs, rendered{
			artifact: Artifact{
				Entry:    src.rel,
				Language: lang,
				Path:     rel,
				Size:     int64(len(data)),
				SHA256:   digest,
				Missing:  len(distinct),
			},
			data: data,
		})
	}
	return outs, missed, nil
}

// write places one rendered output under the output directory, refusing
// paths that would escape it.
func (p *Pipeline) write(out rendered) error {
	target := filepath.Join(p.cfg.Output, out.artifact.Path)
	rel, err := filepath.Rel(p.cfg.Output, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideOutput, out.artifact.Path)
	}
	return writeFileAtomic(target, out.data)
}

func collectArtifacts(outs []rendered) []Artifact {
	artifacts := make([]Artifact, len(outs))
	for i, out := range outs {
		artifacts[i] = out.artifact
	}
	return artifacts
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	var out []string
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// writeFileAtomic writes through a temp file and rename so a concurrently
// serving preview never observes partial output.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".langpack-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
