package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/iajur/internal/db"
	"github.com/kailas-cloud/iajur/internal/domain"
)

type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

type mockEmbedder struct {
	texts []string
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3, 0.4}}, nil
}

func newTestRepo(t *testing.T, opts Options) (*Repo, *mockStore, *mockEmbedder) {
	t.Helper()
	if opts.Index == "" {
		opts.Index = "legal_documents"
	}
	ms := &mockStore{}
	me := &mockEmbedder{}
	return New(me, ms, opts), ms, me
}
