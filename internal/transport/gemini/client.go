// Package gemini talks to the Gemini API for embeddings and answer generation.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// models is the part of genai.Models used here.
type models interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// NewClient creates a Gemini API client. baseURL is optional.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

func healthCheck(ctx context.Context, m models, model string) error {
	if _, err := m.Get(ctx, model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", model, err)
	}
	return nil
}
