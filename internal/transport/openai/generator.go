package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/metrics"
)

var _ domain.Generator = (*Generator)(nil)

// GeneratorConfig holds chat completion settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Provider    string
	Logger      *zap.Logger
}

// Generator produces answers via the chat completions API in JSON object mode.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		client:      newClient(cfg.APIKey, cfg.BaseURL),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if g.maxTokens > 0 {
		req.MaxTokens = g.maxTokens
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	metrics.GenerationRequestDuration.WithLabelValues(g.provider, g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", parseAPIError("generation", err, domain.ErrGenerationFailed)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "empty").Inc()
		return "", fmt.Errorf("empty completion: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	g.logger.Debug("generation completed",
		zap.String("model", g.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)
	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
