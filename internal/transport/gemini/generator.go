package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/metrics"
)

var _ domain.Generator = (*Generator)(nil)

// GeneratorConfig holds Gemini generation settings.
type GeneratorConfig struct {
	Model             string
	Temperature       float32
	MaxOutputTokens   int
	SystemInstruction string
	Logger            *zap.Logger
}

// Generator produces JSON answers with a Gemini model.
type Generator struct {
	models models
	model  string
	config *genai.GenerateContentConfig
	logger *zap.Logger
}

// NewGenerator creates a generator over a Gemini client.
func NewGenerator(client *genai.Client, cfg GeneratorConfig) *Generator {
	return newGenerator(client.Models, cfg)
}

func newGenerator(m models, cfg GeneratorConfig) *Generator {
	gc := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(cfg.Temperature),
		ResponseMIMEType: "application/json",
	}
	if cfg.MaxOutputTokens > 0 {
		gc.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}
	if cfg.SystemInstruction != "" {
		gc.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{models: m, model: cfg.Model, config: gc, logger: logger}
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	metrics.GenerationRequestDuration.WithLabelValues(provider, g.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(provider, g.model, "error").Inc()
		return "", fmt.Errorf("gemini generate: %v: %w", err, domain.ErrGenerationFailed)
	}

	out := ""
	if resp != nil {
		out = resp.Text()
	}
	if strings.TrimSpace(out) == "" {
		metrics.GenerationRequestsTotal.WithLabelValues(provider, g.model, "empty").Inc()
		return "", fmt.Errorf("gemini generate: empty response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(provider, g.model, "success").Inc()
	if u := resp.UsageMetadata; u != nil {
		g.logger.Debug("generation completed",
			zap.String("model", g.model),
			zap.Int32("prompt_tokens", u.PromptTokenCount),
			zap.Int32("candidates_tokens", u.CandidatesTokenCount),
		)
	}
	return out, nil
}

// HealthCheck fetches the model description.
func (g *Generator) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, g.models, g.model)
}
