package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/langpack/pkg/i18n"
)

func TestParseAcceptLanguage(t *testing.T) {
	supported := []string{"en", "fi", "ru"}

	t.Run("exact match", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("fi", supported, "en")
		assert.Equal(t, "fi", got)
	})

	t.Run("quality ordering", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("en;q=0.5,fi;q=0.9", supported, "en")
		assert.Equal(t, "fi", got)
	})

	t.Run("base language fallback", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("fi-FI", supported, "en")
		assert.Equal(t, "fi", got)
	})

	t.Run("exact matches win over base matches", func(t *testing.T) {
		// fi-FI has the higher quality but only matches fi by base;
		// en matches exactly.
		got := i18n.ParseAcceptLanguage("fi-FI,en;q=0.1", supported, "ru")
		assert.Equal(t, "en", got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("FI, EN;q=0.2", supported, "ru")
		assert.Equal(t, "fi", got)
	})

	t.Run("wildcard is skipped", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("*", supported, "en")
		assert.Equal(t, "en", got)
	})

	t.Run("no match returns default", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("de,ja;q=0.8", supported, "en")
		assert.Equal(t, "en", got)
	})

	t.Run("empty header returns default", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("", supported, "en")
		assert.Equal(t, "en", got)
	})

	t.Run("no supported languages returns default", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("fi", nil, "en")
		assert.Equal(t, "en", got)
	})

	t.Run("malformed quality value defaults to 1.0", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("en;q=0.2,fi;q=banana", supported, "ru")
		assert.Equal(t, "fi", got)
	})

	t.Run("out of range quality value defaults to 1.0", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage("en;q=0.2,fi;q=7", supported, "ru")
		assert.Equal(t, "fi", got)
	})

	t.Run("oversized header is truncated", func(t *testing.T) {
		header := strings.Repeat("de,", 2000) + "fi"
		got := i18n.ParseAcceptLanguage(header, supported, "en")
		assert.Equal(t, "en", got)
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		got := i18n.ParseAcceptLanguage(" fi ; q=0.9 , en ; q=0.5 ", supported, "ru")
		assert.Equal(t, "fi", got)
	})
}
