package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/metrics"
)

const provider = "gemini"

// Task types understood by Gemini embedding models.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// EmbedderConfig holds Gemini embedding settings.
type EmbedderConfig struct {
	Model      string
	Dimensions int
	TaskType   string
}

// Embedder embeds text with a Gemini embedding model.
type Embedder struct {
	models     models
	model      string
	dimensions int
	taskType   string
}

// NewEmbedder creates an embedder over a Gemini client.
func NewEmbedder(client *genai.Client, cfg EmbedderConfig) *Embedder {
	return newEmbedder(client.Models, cfg)
}

func newEmbedder(m models, cfg EmbedderConfig) *Embedder {
	if cfg.TaskType == "" {
		cfg.TaskType = TaskRetrievalQuery
	}
	return &Embedder{models: m, model: cfg.Model, dimensions: cfg.Dimensions, taskType: cfg.TaskType}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.embed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: res[0]}, nil
}

// BatchEmbed implements domain.BatchEmbedder in one request.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	res, err := e.embed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	return domain.BatchEmbeddingResult{Embeddings: res}, nil
}

// HealthCheck fetches the model description.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, e.models, e.model)
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	cfg := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(e.dimensions))
	}

	start := time.Now()
	resp, err := e.models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(provider, e.model, "api_error").Inc()
		return nil, fmt.Errorf("gemini embed: %v: %w", err, domain.ErrEmbeddingProviderError)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		metrics.EmbeddingRequestsTotal.WithLabelValues(provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(provider, e.model, "count_mismatch").Inc()
		return nil, fmt.Errorf("gemini embed: expected %d embeddings: %w", len(texts), domain.ErrEmbeddingProviderError)
	}
	metrics.EmbeddingRequestsTotal.WithLabelValues(provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(provider, e.model).Observe(time.Since(start).Seconds())

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini embed: empty vector at %d: %w", i, domain.ErrEmbeddingProviderError)
		}
		out[i] = emb.Values
	}
	return out, nil
}
