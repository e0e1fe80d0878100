package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/langpack/pkg/build"
)

// Result reports one publish run.
type Result struct {
	// URLs of every artifact in the manifest plus the manifest itself,
	// uploaded or skipped, in manifest order.
	URLs     []string
	Uploaded int
	Skipped  int
}

// Publish uploads every artifact of a build manifest plus the manifest
// itself from outDir to storage under prefix. Artifacts whose SHA-256
// matches the previously published manifest are skipped, so re-publishing
// an unchanged build rewrites only manifest.json. The manifest is uploaded
// last: a readable remote manifest always describes fully uploaded content.
func Publish(ctx context.Context, storage Storage, m *build.Manifest, outDir, prefix string) (*Result, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	if m == nil {
		return nil, ErrNilManifest
	}
	prefix = strings.Trim(prefix, "/")

	previous := remoteHashes(ctx, storage, path.Join(prefix, build.ManifestName))

	res := &Result{}
	for _, artifact := range m.Artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rel := filepath.ToSlash(artifact.Path)
		key := path.Join(prefix, rel)
		if previous[rel] == artifact.SHA256 && storage.Exists(ctx, key) {
			res.Skipped++
			res.URLs = append(res.URLs, storage.URL(key))
			continue
		}

		data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", rel, err)
		}
		if err := storage.Put(ctx, key, data, ContentTypeFor(rel)); err != nil {
			return nil, fmt.Errorf("upload %s: %w", rel, err)
		}
		res.Uploaded++
		res.URLs = append(res.URLs, storage.URL(key))
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	key := path.Join(prefix, build.ManifestName)
	if err := storage.Put(ctx, key, append(data, '\n'), "application/json"); err != nil {
		return nil, fmt.Errorf("upload manifest: %w", err)
	}
	res.URLs = append(res.URLs, storage.URL(key))

	return res, nil
}

// remoteHashes reads the previously published manifest and maps artifact
// paths to their hashes. Any failure means nothing is skipped, not an error:
// a first publish has no remote manifest to read.
func remoteHashes(ctx context.Context, storage Storage, key string) map[string]string {
	data, err := storage.Get(ctx, key)
	if err != nil {
		return nil
	}
	var m build.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	hashes := make(map[string]string, len(m.Artifacts))
	for _, a := range m.Artifacts {
		hashes[filepath.ToSlash(a.Path)] = a.SHA256
	}
	return hashes
}

// ContentTypeFor maps a file path to the content type it is served with.
// Common build outputs are pinned explicitly because the platform mime
// database is not consistent about them.
func ContentTypeFor(p string) string {
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".json", ".map":
		return "application/json"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}
