package publish_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/publish"
)

// countingStorage records Put calls so tests can tell uploads from skips.
type countingStorage struct {
	publish.Storage
	puts         []string
	contentTypes map[string]string
}

func (c *countingStorage) Put(ctx context.Context, path string, data []byte, contentType string) error {
	c.puts = append(c.puts, path)
	if c.contentTypes == nil {
		c.contentTypes = make(map[string]string)
	}
	c.contentTypes[path] = contentType
	return c.Storage.Put(ctx, path, data, contentType)
}

func writeArtifact(t *testing.T, outDir, rel, lang, content string) build.Artifact {
	t.Helper()
	p := filepath.Join(outDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	sum := sha256.Sum256([]byte(content))
	return build.Artifact{
		Entry:    rel,
		Language: lang,
		Path:     rel,
		Size:     int64(len(content)),
		SHA256:   hex.EncodeToString(sum[:]),
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	outDir := t.TempDir()

	local, err := publish.NewLocalStorage(t.TempDir(), "/static/")
	require.NoError(t, err)
	storage := &countingStorage{Storage: local}

	artifacts := []build.Artifact{
		writeArtifact(t, outDir, "app.fi.js", "fi", "var hello = 'Hei';"),
		writeArtifact(t, outDir, "app.sv.js", "sv", "var hello = 'Hej';"),
		writeArtifact(t, outDir, "pages/about.fi.js", "fi", "var about = 'Tietoja';"),
	}
	manifest := &build.Manifest{
		ID:             "run-1",
		CreatedAt:      time.Now().UTC(),
		SourceLanguage: "en",
		Languages:      []string{"fi", "sv"},
		Artifacts:      artifacts,
	}

	t.Run("first publish uploads everything", func(t *testing.T) {
		res, err := publish.Publish(ctx, storage, manifest, outDir, "v2")
		require.NoError(t, err)

		assert.Equal(t, 3, res.Uploaded)
		assert.Equal(t, 0, res.Skipped)
		assert.Equal(t, []string{
			"/static/v2/app.fi.js",
			"/static/v2/app.sv.js",
			"/static/v2/pages/about.fi.js",
			"/static/v2/manifest.json",
		}, res.URLs)

		data, err := storage.Get(ctx, "v2/app.fi.js")
		require.NoError(t, err)
		assert.Equal(t, "var hello = 'Hei';", string(data))

		assert.Equal(t, "text/javascript; charset=utf-8", storage.contentTypes["v2/app.fi.js"])
		assert.Equal(t, "application/json", storage.contentTypes["v2/manifest.json"])

		remote, err := storage.Get(ctx, "v2/manifest.json")
		require.NoError(t, err)
		var m build.Manifest
		require.NoError(t, json.Unmarshal(remote, &m))
		assert.Equal(t, manifest.Artifacts, m.Artifacts)
	})

	t.Run("republish skips unchanged artifacts", func(t *testing.T) {
		storage.puts = nil

		res, err := publish.Publish(ctx, storage, manifest, outDir, "v2")
		require.NoError(t, err)

		assert.Equal(t, 0, res.Uploaded)
		assert.Equal(t, 3, res.Skipped)
		assert.Len(t, res.URLs, 4)
		assert.Equal(t, []string{"v2/manifest.json"}, storage.puts)
	})

	t.Run("changed artifact is re-uploaded", func(t *testing.T) {
		storage.puts = nil
		manifest.Artifacts[0] = writeArtifact(t, outDir, "app.fi.js", "fi", "var hello = 'Hei maailma';")

		res, err := publish.Publish(ctx, storage, manifest, outDir, "v2")
		require.NoError(t, err)

		assert.Equal(t, 1, res.Uploaded)
		assert.Equal(t, 2, res.Skipped)
		assert.Equal(t, []string{"v2/app.fi.js", "v2/manifest.json"}, storage.puts)

		data, err := storage.Get(ctx, "v2/app.fi.js")
		require.NoError(t, err)
		assert.Equal(t, "var hello = 'Hei maailma';", string(data))
	})

	t.Run("missing remote object is re-uploaded despite matching hash", func(t *testing.T) {
		storage.puts = nil
		require.NoError(t, storage.Delete(ctx, "v2/app.sv.js"))

		res, err := publish.Publish(ctx, storage, manifest, outDir, "v2")
		require.NoError(t, err)

		assert.Equal(t, 1, res.Uploaded)
		assert.Equal(t, 2, res.Skipped)
		assert.Contains(t, storage.puts, "v2/app.sv.js")
	})
}

func TestPublishNoPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	outDir := t.TempDir()

	local, err := publish.NewLocalStorage(t.TempDir(), "https://cdn.example.com/i18n/")
	require.NoError(t, err)

	manifest := &build.Manifest{
		Artifacts: []build.Artifact{writeArtifact(t, outDir, "app.fi.js", "fi", "x")},
	}

	res, err := publish.Publish(ctx, local, manifest, outDir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/i18n/app.fi.js",
		"https://cdn.example.com/i18n/manifest.json",
	}, res.URLs)
	assert.True(t, local.Exists(ctx, "app.fi.js"))
}

func TestPublishValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	local, err := publish.NewLocalStorage(t.TempDir(), "/static/")
	require.NoError(t, err)

	t.Run("nil storage", func(t *testing.T) {
		t.Parallel()
		_, err := publish.Publish(ctx, nil, &build.Manifest{}, t.TempDir(), "")
		require.ErrorIs(t, err, publish.ErrNilStorage)
	})

	t.Run("nil manifest", func(t *testing.T) {
		t.Parallel()
		_, err := publish.Publish(ctx, local, nil, t.TempDir(), "")
		require.ErrorIs(t, err, publish.ErrNilManifest)
	})

	t.Run("artifact missing on disk", func(t *testing.T) {
		t.Parallel()
		manifest := &build.Manifest{
			Artifacts: []build.Artifact{{Path: "gone.fi.js", SHA256: "deadbeef"}},
		}
		_, err := publish.Publish(ctx, local, manifest, t.TempDir(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read artifact gone.fi.js")
	})
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"app.fi.js":     "text/javascript; charset=utf-8",
		"app.fi.mjs":    "text/javascript; charset=utf-8",
		"manifest.json": "application/json",
		"app.js.map":    "application/json",
		"index.html":    "text/html; charset=utf-8",
		"style.css":     "text/css; charset=utf-8",
		"logo.svg":      "image/svg+xml",
		"notes.txt":     "text/plain; charset=utf-8",
		"blob.weird":    "application/octet-stream",
	}
	for path, want := range tests {
		assert.Equal(t, want, publish.ContentTypeFor(path), path)
	}
}
