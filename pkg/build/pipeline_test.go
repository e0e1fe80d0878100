package build_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/project"
)

const appJS = `const greeting = __("Hello world");
const items = __n("One item", "%{count} items", cart.length);
console.log(greeting, items);
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T, dir string, languages ...string) project.Config {
	t.Helper()
	cfg := project.Default()
	cfg.Source = "en"
	cfg.Languages = languages
	cfg.Entries = project.StringList{filepath.Join(dir, "src", "*.js")}
	cfg.Output = filepath.Join(dir, "dist")
	require.NoError(t, cfg.Validate())
	return cfg
}

func finnishSet() *catalog.Set {
	fi := catalog.New(language.Finnish)
	fi.Set(catalog.Entry{Key: "Hello world", Translation: "Terve maailma"})
	fi.Set(catalog.Entry{
		Key:         "One item",
		PluralKey:   "%{count} items",
		Translation: "1 kohde",
		Plurals:     []string{"1 kohde", "%{count} kohdetta"},
	})
	set := catalog.NewSet()
	set.Add(fi)
	return set
}

func TestRunIdentity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir)

	m, err := build.New(&cfg, catalog.NewSet(), nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Artifacts, 1)
	a := m.Artifacts[0]
	assert.Equal(t, "en", a.Language)
	assert.Equal(t, "app.js", a.Entry)
	assert.Equal(t, "app.en.js", a.Path)
	assert.Equal(t, 0, a.Missing)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.en.js"))
	require.NoError(t, err)
	want := `const greeting = "Hello world";
const items = ((n)=>["One item","%{count} items".replace("%{count}",n)][+(n != 1)])(cart.length);
console.log(greeting, items);
`
	assert.Equal(t, want, string(got))

	sum := sha256.Sum256(got)
	assert.Equal(t, hex.EncodeToString(sum[:]), a.SHA256)
	assert.Equal(t, int64(len(got)), a.Size)

	// The input file stays untouched.
	src, err := os.ReadFile(filepath.Join(dir, "src", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, appJS, string(src))

	loaded, err := build.LoadManifest(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, m.ID, loaded.ID)
	assert.Equal(t, m.Artifacts, loaded.Artifacts)
}

func TestRunTranslated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir, "fi")

	m, err := build.New(&cfg, finnishSet(), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "fi"}, m.Languages)
	require.Len(t, m.Artifacts, 2)
	assert.Equal(t, "en", m.Artifacts[0].Language)
	assert.Equal(t, "fi", m.Artifacts[1].Language)
	assert.Equal(t, 0, m.TotalMissing)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.fi.js"))
	require.NoError(t, err)
	want := `const greeting = "Terve maailma";
const items = ((n)=>["1 kohde","%{count} kohdetta".replace("%{count}",n)][+(n != 1)])(cart.length);
console.log(greeting, items);
`
	assert.Equal(t, want, string(got))
}

func TestRunMissingWarn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir, "fi")

	fi := catalog.New(language.Finnish)
	fi.Set(catalog.Entry{
		Key:       "One item",
		PluralKey: "%{count} items",
		Plurals:   []string{"1 kohde", "%{count} kohdetta"},
	})
	set := catalog.NewSet()
	set.Add(fi)

	m, err := build.New(&cfg, set, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Artifacts, 2)
	assert.Equal(t, 0, m.Artifacts[0].Missing)
	assert.Equal(t, 1, m.Artifacts[1].Missing)
	assert.Equal(t, 1, m.TotalMissing)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.fi.js"))
	require.NoError(t, err)
	assert.Contains(t, string(got), `const greeting = "Hello world";`)
	assert.Contains(t, string(got), "1 kohde")
}

func TestRunMissingError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir, "fi")
	cfg.OnMissing = project.MissingError

	fi := catalog.New(language.Finnish)
	fi.Set(catalog.Entry{Key: "Hello world", Translation: "Terve maailma"})
	set := catalog.NewSet()
	set.Add(fi)

	_, err := build.New(&cfg, set, nil).Run(context.Background())
	require.ErrorIs(t, err, build.ErrMissingTranslations)
	assert.Contains(t, err.Error(), `fi: app.js: "One item"`)

	// Nothing may be written on a failed build.
	_, err = os.Stat(cfg.Output)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunRussianPlurals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir, "ru")

	ru := catalog.New(language.Russian)
	ru.Set(catalog.Entry{Key: "Hello world", Translation: "Привет, мир"})
	ru.Set(catalog.Entry{
		Key:       "One item",
		PluralKey: "%{count} items",
		Plurals:   []string{"%{count} товар", "%{count} товара", "%{count} товаров"},
	})
	set := catalog.NewSet()
	set.Add(ru)

	m, err := build.New(&cfg, set, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, m.TotalMissing)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.ru.js"))
	require.NoError(t, err)
	want := `((n)=>["%{count} товар".replace("%{count}",n),"%{count} товара".replace("%{count}",n),"%{count} товаров".replace("%{count}",n)][+(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)])(cart.length)`
	assert.Contains(t, string(got), want)
}

func TestRunIncompletePluralFallsBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir, "ru")

	// Russian needs three forms; two is incomplete.
	ru := catalog.New(language.Russian)
	ru.Set(catalog.Entry{Key: "Hello world", Translation: "Привет, мир"})
	ru.Set(catalog.Entry{
		Key:       "One item",
		PluralKey: "%{count} items",
		Plurals:   []string{"%{count} товар", "%{count} товара"},
	})
	set := catalog.NewSet()
	set.Add(ru)

	m, err := build.New(&cfg, set, nil).Run(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.ru.js"))
	require.NoError(t, err)
	assert.Contains(t, string(got), `((n)=>["One item","%{count} items".replace("%{count}",n)][+(n != 1)])(cart.length)`)

	require.Len(t, m.Artifacts, 2)
	assert.Equal(t, 1, m.Artifacts[1].Missing)
}

func TestRunDynamicMarkerUntouched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := `const label = __(dynamicKey);
const title = __("Title");
`
	writeFile(t, filepath.Join(dir, "src", "app.js"), src)
	cfg := testConfig(t, dir)

	_, err := build.New(&cfg, catalog.NewSet(), nil).Run(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.en.js"))
	require.NoError(t, err)
	want := `const label = __(dynamicKey);
const title = "Title";
`
	assert.Equal(t, want, string(got))
}

func TestRunCopiesUnsupportedEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	writeFile(t, filepath.Join(dir, "src", "style.css"), "body { color: red; }\n")
	cfg := testConfig(t, dir, "fi")
	cfg.Entries = project.StringList{
		filepath.Join(dir, "src", "*.js"),
		filepath.Join(dir, "src", "*.css"),
	}
	require.NoError(t, cfg.Validate())

	m, err := build.New(&cfg, finnishSet(), nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Artifacts, 4)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "style.fi.css"))
	require.NoError(t, err)
	assert.Equal(t, "body { color: red; }\n", string(got))
}

func TestRunPreservesDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "widgets", "panel.js"), `el.title = __("Hello world");`)
	cfg := testConfig(t, dir)
	cfg.Entries = project.StringList{filepath.Join(dir, "src", "*", "*.js")}
	require.NoError(t, cfg.Validate())

	m, err := build.New(&cfg, catalog.NewSet(), nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Artifacts, 1)
	assert.Equal(t, filepath.Join("widgets", "panel.js"), m.Artifacts[0].Entry)
	assert.Equal(t, filepath.Join("widgets", "panel.en.js"), m.Artifacts[0].Path)
	assert.FileExists(t, filepath.Join(cfg.Output, "widgets", "panel.en.js"))
}

func TestRunContentHashFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)
	cfg := testConfig(t, dir)
	cfg.Filename = "[name].[language].[contenthash][ext]"
	require.NoError(t, cfg.Validate())

	m, err := build.New(&cfg, catalog.NewSet(), nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Artifacts, 1)
	a := m.Artifacts[0]
	assert.Equal(t, "app.en."+a.SHA256[:8]+".js", a.Path)
	assert.FileExists(t, filepath.Join(cfg.Output, a.Path))
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "app.js"), appJS)

	run := func(out string) *build.Manifest {
		cfg := testConfig(t, dir, "fi")
		cfg.Output = out
		require.NoError(t, cfg.Validate())
		m, err := build.New(&cfg, finnishSet(), nil).Run(context.Background())
		require.NoError(t, err)
		return m
	}
	m1 := run(filepath.Join(dir, "dist1"))
	m2 := run(filepath.Join(dir, "dist2"))

	assert.NotEqual(t, m1.ID, m2.ID)
	assert.Equal(t, m1.Artifacts, m2.Artifacts)
	assert.Equal(t, m1.TotalSize, m2.TotalSize)

	for _, a := range m1.Artifacts {
		b1, err := os.ReadFile(filepath.Join(dir, "dist1", a.Path))
		require.NoError(t, err)
		b2, err := os.ReadFile(filepath.Join(dir, "dist2", a.Path))
		require.NoError(t, err)
		assert.Equal(t, b1, b2, a.Path)
	}
}

func TestRunNoEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir)

	_, err := build.New(&cfg, catalog.NewSet(), nil).Run(context.Background())
	require.ErrorIs(t, err, build.ErrNoEntries)
}

func TestRunCustomMarkers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := `const a = t("Hello world");
const b = __("left alone");
`
	writeFile(t, filepath.Join(dir, "src", "app.js"), src)
	cfg := testConfig(t, dir, "fi")
	cfg.Markers = project.Markers{
		Singular: project.StringList{"t"},
		Plural:   project.StringList{"tn"},
	}
	require.NoError(t, cfg.Validate())

	_, err := build.New(&cfg, finnishSet(), nil).Run(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(cfg.Output, "app.fi.js"))
	require.NoError(t, err)
	want := `const a = "Terve maailma";
const b = __("left alone");
`
	assert.Equal(t, want, string(got))
}

func TestLoadManifestMissing(t *testing.T) {
	t.Parallel()

	_, err := build.LoadManifest(t.TempDir())
	require.ErrorIs(t, err, build.ErrNoManifest)
}
