// Package mt fills missing catalog entries with machine translations. A
// Provider streams model output; the package builds the translation prompt,
// reassembles the stream, and validates the result before anything touches a
// catalog.
package mt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/langpack/pkg/mt/gemini"
	"github.com/dmitrymomot/langpack/pkg/mt/openai"
)

// Provider streams a model completion for a prompt, delivering text chunks
// to onChunk as they arrive. Returning an error from onChunk aborts the
// stream.
type Provider interface {
	StreamCompletion(ctx context.Context, prompt string, onChunk func(string) error) error
}

// Provider names accepted by Factory.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	// ErrUnknownProvider is returned by Factory for unrecognized names.
	ErrUnknownProvider = errors.New("unknown machine translation provider")

	// ErrNilProvider is returned by Translate when no provider is given.
	ErrNilProvider = errors.New("machine translation provider is nil")

	// ErrBadResponse wraps model output that cannot be parsed.
	ErrBadResponse = errors.New("cannot parse translation response")
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of the Provider* names.
	Provider string
	// Model overrides the provider default model.
	Model string
	// APIKey authenticates against the provider.
	APIKey string
}

// Factory returns the provider named in the config.
func Factory(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return openai.New(openai.Config{APIKey: cfg.APIKey, Model: cfg.Model})
	case ProviderGemini:
		return gemini.New(ctx, gemini.Config{APIKey: cfg.APIKey, Model: cfg.Model})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
