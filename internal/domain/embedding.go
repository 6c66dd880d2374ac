package domain

import (
	"context"
	"fmt"
)

// Embedder turns a question or a document into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder is implemented by providers with a native multi-text call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker is implemented by external providers that can be probed.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult is one vector plus the tokens the provider billed for it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult holds vectors in input order.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

func (r *BatchEmbeddingResult) add(res EmbeddingResult) {
	r.Embeddings = append(r.Embeddings, res.Embedding)
	r.PromptTokens += res.PromptTokens
	r.TotalTokens += res.TotalTokens
}

// EmbedBatch embeds texts with the native batch call when e has one and one call per
// text otherwise. A result whose vector count differs from len(texts) is an
// ErrEmbeddingProviderError.
func EmbedBatch(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return BatchEmbeddingResult{}, nil
	}

	var out BatchEmbeddingResult
	if be, ok := e.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return BatchEmbeddingResult{}, err
		}
		out = res
	} else {
		out.Embeddings = make([][]float32, 0, len(texts))
		for i, text := range texts {
			res, err := e.Embed(ctx, text)
			if err != nil {
				return BatchEmbeddingResult{}, fmt.Errorf("text %d: %w", i, err)
			}
			out.add(res)
		}
	}

	if len(out.Embeddings) != len(texts) {
		return BatchEmbeddingResult{}, fmt.Errorf("%w: got %d vectors for %d texts",
			ErrEmbeddingProviderError, len(out.Embeddings), len(texts))
	}
	return out, nil
}

// PrefixEmbedder prepends a fixed task prefix to every text, for models trained with
// asymmetric query and document prefixes.
type PrefixEmbedder struct {
	inner  Embedder
	prefix string
}

// NewPrefixEmbedder wraps inner.
func NewPrefixEmbedder(inner Embedder, prefix string) *PrefixEmbedder {
	return &PrefixEmbedder{inner: inner, prefix: prefix}
}

func (e *PrefixEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := e.inner.Embed(ctx, e.prefix+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("prefixed embed: %w", err)
	}
	return res, nil
}

func (e *PrefixEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = e.prefix + t
	}
	res, err := EmbedBatch(ctx, e.inner, prefixed)
	if err != nil {
		return BatchEmbeddingResult{}, fmt.Errorf("prefixed batch embed: %w", err)
	}
	return res, nil
}

// HealthCheck probes inner when it supports it.
func (e *PrefixEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
