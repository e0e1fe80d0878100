// Package openai streams completions from the OpenAI Responses API.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gpt-5-nano"

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("OpenAI API key is required")

// Config holds the provider settings.
type Config struct {
	APIKey string
	Model  string
}

// Client streams completions from OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// New returns a client for the configured model.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	c := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{client: &c, model: model}, nil
}

// StreamCompletion streams the model response for a prompt, passing each
// text chunk to onChunk.
func (c *Client) StreamCompletion(ctx context.Context, prompt string, onChunk func(string) error) error {
	stream := c.client.Responses.NewStreaming(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(prompt)},
	})
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		if event.Text == "" {
			continue
		}
		if err := onChunk(event.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("stream response: %w", err)
	}
	return nil
}
