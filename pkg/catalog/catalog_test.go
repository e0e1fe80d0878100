package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
)

func TestEntryID(t *testing.T) {
	t.Run("without context", func(t *testing.T) {
		e := catalog.Entry{Key: "Hello world"}
		assert.Equal(t, "Hello world", e.ID())
	})

	t.Run("with context", func(t *testing.T) {
		e := catalog.Entry{Key: "Open", Context: "menu"}
		assert.Equal(t, "menu\x04Open", e.ID())
	})

	t.Run("split round trip", func(t *testing.T) {
		ctx, key := catalog.SplitID(catalog.ID("menu", "Open"))
		assert.Equal(t, "menu", ctx)
		assert.Equal(t, "Open", key)

		ctx, key = catalog.SplitID("Hello world")
		assert.Empty(t, ctx)
		assert.Equal(t, "Hello world", key)
	})
}

func TestCatalogSetGet(t *testing.T) {
	c := catalog.New(language.Finnish)

	c.Set(catalog.Entry{Key: "Hello world", Translation: "Terve maailma"})
	c.Set(catalog.Entry{Key: "Goodbye", Translation: "Näkemiin"})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "fi", c.Lang())

	e, ok := c.Get("Hello world")
	require.True(t, ok)
	assert.Equal(t, "Terve maailma", e.Translation)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCatalogOrder(t *testing.T) {
	c := catalog.New(language.German)
	c.Set(catalog.Entry{Key: "b"})
	c.Set(catalog.Entry{Key: "a"})
	c.Set(catalog.Entry{Key: "c"})

	assert.Equal(t, []string{"b", "a", "c"}, c.Keys())

	// Replacing an entry keeps its original position.
	c.Set(catalog.Entry{Key: "a", Translation: "ein"})
	assert.Equal(t, []string{"b", "a", "c"}, c.Keys())

	c.Delete("b")
	assert.Equal(t, []string{"a", "c"}, c.Keys())
	assert.Equal(t, 2, c.Len())

	// Deleting an absent key is a no-op.
	c.Delete("b")
	assert.Equal(t, 2, c.Len())
}

func TestCatalogTranslate(t *testing.T) {
	c := catalog.New(language.Finnish)
	c.Set(catalog.Entry{Key: "Hello world", Translation: "Terve maailma"})
	c.Set(catalog.Entry{Key: "Untranslated"})

	t.Run("translated", func(t *testing.T) {
		msg, ok := c.Translate("Hello world")
		require.True(t, ok)
		assert.Equal(t, "Terve maailma", msg)
	})

	t.Run("untranslated", func(t *testing.T) {
		_, ok := c.Translate("Untranslated")
		assert.False(t, ok)
	})

	t.Run("absent", func(t *testing.T) {
		_, ok := c.Translate("nope")
		assert.False(t, ok)
	})
}

func TestCatalogTranslateN(t *testing.T) {
	c := catalog.New(language.Russian)
	c.Set(catalog.Entry{
		Key:     "%d files",
		Plurals: []string{"%d файл", "%d файла", "%d файлов"},
	})
	c.Set(catalog.Entry{Key: "Save", Translation: "Сохранить"})

	t.Run("selects form by count", func(t *testing.T) {
		for _, tc := range []struct {
			n    int
			want string
		}{
			{1, "%d файл"},
			{2, "%d файла"},
			{5, "%d файлов"},
			{11, "%d файлов"},
			{21, "%d файл"},
			{102, "%d файла"},
		} {
			msg, ok := c.TranslateN("%d files", tc.n)
			require.True(t, ok, "n=%d", tc.n)
			assert.Equal(t, tc.want, msg, "n=%d", tc.n)
		}
	})

	t.Run("falls back to singular without plural forms", func(t *testing.T) {
		msg, ok := c.TranslateN("Save", 7)
		require.True(t, ok)
		assert.Equal(t, "Сохранить", msg)
	})

	t.Run("absent key", func(t *testing.T) {
		_, ok := c.TranslateN("missing", 1)
		assert.False(t, ok)
	})
}

func TestCatalogMerge(t *testing.T) {
	base := catalog.New(language.Finnish)
	base.Set(catalog.Entry{Key: "Hello", Translation: "Terve"})
	base.Set(catalog.Entry{Key: "Bye", Translation: "Hei hei"})

	extra := catalog.New(language.Finnish)
	extra.Set(catalog.Entry{Key: "Bye", Translation: "Näkemiin"})
	extra.Set(catalog.Entry{Key: "Thanks", Translation: "Kiitos"})

	base.Merge(extra)

	assert.Equal(t, 3, base.Len())

	msg, ok := base.Translate("Bye")
	require.True(t, ok)
	assert.Equal(t, "Näkemiin", msg, "later catalog wins on collision")

	msg, ok = base.Translate("Thanks")
	require.True(t, ok)
	assert.Equal(t, "Kiitos", msg)
}

func TestEntryTranslated(t *testing.T) {
	assert.False(t, catalog.Entry{Key: "a"}.Translated())
	assert.True(t, catalog.Entry{Key: "a", Translation: "b"}.Translated())
	assert.False(t, catalog.Entry{Key: "a", Plurals: []string{"", ""}}.Translated())
	assert.True(t, catalog.Entry{Key: "a", Plurals: []string{"", "x"}}.Translated())
}
