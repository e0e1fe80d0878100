// Package gemini streams completions from the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("Gemini API key is required")

// Config holds the provider settings.
type Config struct {
	APIKey string
	Model  string
}

// Client streams completions from Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// New returns a client for the configured model.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// StreamCompletion streams the model response for a prompt, passing each
// text chunk to onChunk.
func (c *Client) StreamCompletion(ctx context.Context, prompt string, onChunk func(string) error) error {
	stream := c.client.Models.GenerateContentStream(ctx, c.model,
		[]*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{{Text: prompt}},
			},
		},
		&genai.GenerateContentConfig{},
	)

	for chunk, err := range stream {
		if err != nil {
			return fmt.Errorf("stream response: %w", err)
		}
		text := chunk.Text()
		if text == "" {
			continue
		}
		if err := onChunk(text); err != nil {
			return err
		}
	}
	return nil
}
