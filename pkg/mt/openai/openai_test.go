package openai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langpack/pkg/mt/openai"
)

func TestNew(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		_, err := openai.New(openai.Config{})
		require.ErrorIs(t, err, openai.ErrMissingAPIKey)
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := openai.New(openai.Config{APIKey: "test-key"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("custom model", func(t *testing.T) {
		client, err := openai.New(openai.Config{APIKey: "test-key", Model: "gpt-4.1-mini"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}
