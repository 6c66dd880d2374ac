package ingest

import (
	"context"

	"github.com/kailas-cloud/iajur/internal/db"
)

// Store is the vector backend documents are written to.
type Store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	UpsertDocuments(ctx context.Context, index string, docs []db.Document) error
}
