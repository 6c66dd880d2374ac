// Package search answers the search(query, top_k) contract: embed the query, run a
// KNN lookup on the configured vector store and map hits to search results.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/iajur/internal/db"
	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/domain/text"
)

// Defaults of the search contract.
const (
	DefaultMinScore     = 0.3
	DefaultPreviewChars = 2000
	previewSuffix       = "..."
	untitled            = "N/A"
)

// Document field names.
const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldNoteNumber = "numero_nota_tecnica"
)

type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Options tune the search contract.
type Options struct {
	Index        string
	MinScore     float64
	PreviewChars int
}

// Repo implements the search service over an embedder and a vector store.
type Repo struct {
	embedder domain.Embedder
	store    store
	opts     Options
}

// New creates a search repository. Zero options fall back to the defaults.
func New(e domain.Embedder, s store, opts Options) *Repo {
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	return &Repo{embedder: e, store: s, opts: opts}
}

// Search returns up to topK results scoring at least the similarity floor, best first.
func (r *Repo) Search(ctx context.Context, query string, topK int) ([]result.Result, error) {
	if strings.TrimSpace(query) == "" || topK <= 0 {
		return nil, nil
	}

	emb, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrSearchFailed, err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.opts.Index,
		Vector:    emb.Embedding,
		K:         topK,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: knn %s: %w", domain.ErrSearchFailed, r.opts.Index, err)
	}

	return r.toResults(sr), nil
}

func (r *Repo) toResults(sr *db.SearchResult) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	prefix := db.KeyPrefix(r.opts.Index)
	out := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < r.opts.MinScore {
			continue
		}
		out = append(out, r.toResult(strings.TrimPrefix(entry.Key, prefix), entry))
	}
	return out
}

func (r *Repo) toResult(id string, entry db.SearchEntry) result.Result {
	meta := make(map[string]string, len(entry.Fields))
	for k, v := range entry.Fields {
		if k == FieldTitle || k == FieldContent {
			continue
		}
		meta[k] = v
	}

	title := entry.Fields[FieldTitle]
	if title == "" {
		title = entry.Fields[FieldNoteNumber]
	}
	if title == "" {
		title = untitled
	}

	content := text.Truncate(entry.Fields[FieldContent], r.opts.PreviewChars, previewSuffix)
	return result.New(id, title, content, entry.Score, meta)
}
