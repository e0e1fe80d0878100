package mt_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/text/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/mt"
)

type stubProvider struct {
	chunks []string
	err    error
	prompt string
	called bool
}

func (s *stubProvider) StreamCompletion(ctx context.Context, prompt string, onChunk func(string) error) error {
	s.called = true
	s.prompt = prompt
	for _, chunk := range s.chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return s.err
}

func request() mt.Request {
	return mt.Request{
		SourceLanguage: "en",
		TargetLanguage: "fi",
		Keys:           []string{"Hello world", "Welcome, %{name}!"},
	}
}

func TestTranslate(t *testing.T) {
	provider := &stubProvider{chunks: []string{
		`{"Hello world": "Hei`,
		` maailma", "Welcome, %{name}!": "Tervetuloa, %{name}!"}`,
	}}

	got, err := mt.Translate(context.Background(), provider, request())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Hello world":       "Hei maailma",
		"Welcome, %{name}!": "Tervetuloa, %{name}!",
	}, got)

	assert.Contains(t, provider.prompt, "from en to fi")
	assert.Contains(t, provider.prompt, `"Hello world"`)
	assert.Contains(t, provider.prompt, "%{name}")
}

func TestTranslateCodeFence(t *testing.T) {
	provider := &stubProvider{chunks: []string{
		"Here is the translation:\n```json\n{\"Hello world\": \"Hei maailma\"}\n```\nLet me know if you need more.",
	}}

	got, err := mt.Translate(context.Background(), provider, request())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Hello world": "Hei maailma"}, got)
}

func TestTranslateSurroundingProse(t *testing.T) {
	provider := &stubProvider{chunks: []string{
		`Sure! {"Hello world": "Hei maailma"} hope that helps.`,
	}}

	got, err := mt.Translate(context.Background(), provider, request())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Hello world": "Hei maailma"}, got)
}

func TestTranslateFiltersResponse(t *testing.T) {
	t.Run("invented keys are dropped", func(t *testing.T) {
		provider := &stubProvider{chunks: []string{
			`{"Hello world": "Hei maailma", "Invented key": "Keksitty"}`,
		}}
		got, err := mt.Translate(context.Background(), provider, request())
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Hello world": "Hei maailma"}, got)
	})

	t.Run("lost placeholder rejects the entry", func(t *testing.T) {
		provider := &stubProvider{chunks: []string{
			`{"Hello world": "Hei maailma", "Welcome, %{name}!": "Tervetuloa!"}`,
		}}
		got, err := mt.Translate(context.Background(), provider, request())
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Hello world": "Hei maailma"}, got)
	})

	t.Run("empty translation rejects the entry", func(t *testing.T) {
		provider := &stubProvider{chunks: []string{
			`{"Hello world": ""}`,
		}}
		got, err := mt.Translate(context.Background(), provider, request())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTranslateBadResponse(t *testing.T) {
	provider := &stubProvider{chunks: []string{"I cannot help with that."}}

	_, err := mt.Translate(context.Background(), provider, request())
	require.ErrorIs(t, err, mt.ErrBadResponse)
}

func TestTranslateProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}

	_, err := mt.Translate(context.Background(), provider, request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestTranslateNoKeys(t *testing.T) {
	provider := &stubProvider{}

	got, err := mt.Translate(context.Background(), provider, mt.Request{SourceLanguage: "en", TargetLanguage: "fi"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, provider.called)
}

func TestTranslateNilProvider(t *testing.T) {
	_, err := mt.Translate(context.Background(), nil, request())
	require.ErrorIs(t, err, mt.ErrNilProvider)
}

func TestApply(t *testing.T) {
	c := catalog.New(language.MustParse("fi"))
	c.Set(catalog.Entry{Key: "Hello world", Translation: "Hei maailma"})
	c.Set(catalog.Entry{Key: "Goodbye", Translation: ""})

	applied := mt.Apply(c, map[string]string{
		"Hello world": "KORVATTU",
		"Goodbye":     "Näkemiin",
		"New key":     "Uusi",
	})

	assert.Equal(t, 2, applied)

	got, _ := c.Translate("Hello world")
	assert.Equal(t, "Hei maailma", got)
	got, _ = c.Translate("Goodbye")
	assert.Equal(t, "Näkemiin", got)
	got, _ = c.Translate("New key")
	assert.Equal(t, "Uusi", got)
}

func TestFactory(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		provider, err := mt.Factory(context.Background(), mt.Config{Provider: "openai", APIKey: "test-key"})
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("gemini", func(t *testing.T) {
		provider, err := mt.Factory(context.Background(), mt.Config{Provider: "Gemini", APIKey: "test-key"})
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := mt.Factory(context.Background(), mt.Config{Provider: "babelfish"})
		require.ErrorIs(t, err, mt.ErrUnknownProvider)
	})
}
