package aggregate

import (
	"context"

	"github.com/kailas-cloud/iajur/internal/domain/search/result"
)

// Searcher is the search service: search(query, top_k).
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]result.Result, error)
}
