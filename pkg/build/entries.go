package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// entryFile is one input asset: its on-disk path and its path relative to
// the glob root, which decides where the output lands.
type entryFile struct {
	path string
	rel  string
}

// expandEntries resolves entry globs into files, deduplicated and sorted by
// path. Directories are skipped.
func expandEntries(patterns []string) ([]entryFile, error) {
	seen := make(map[string]struct{})
	var entries []entryFile
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad entry pattern %q: %w", pattern, err)
		}
		root := globRoot(pattern)
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat entry %s: %w", m, err)
			}
			if info.IsDir() {
				continue
			}
			rel, err := filepath.Rel(root, m)
			if err != nil || strings.HasPrefix(rel, "..") {
				rel = filepath.Base(m)
			}
			seen[m] = struct{}{}
			entries = append(entries, entryFile{path: m, rel: rel})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}

// globRoot returns the literal directory prefix of a glob pattern: the
// segments before the first one containing a meta character. A pattern
// without meta characters roots at its directory.
func globRoot(pattern string) string {
	clean := filepath.ToSlash(pattern)
	segs := strings.Split(clean, "/")
	var root []string
	for i, seg := range segs {
		if strings.ContainsAny(seg, "*?[") {
			break
		}
		if i == len(segs)-1 {
			// Last segment is the file name of a literal path.
			break
		}
		root = append(root, seg)
	}
	if len(root) == 0 {
		return "."
	}
	return filepath.FromSlash(strings.Join(root, "/"))
}
