package db

import (
	"context"
	"time"
)

// VectorStore is what a search backend offers the answer and ingest paths.
type VectorStore interface {
	Pinger
	IndexManager
	Searcher
	DocumentWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager provides vector index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs vector similarity search.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// Document is a stored legal document with its embedding.
type Document struct {
	ID     string
	Fields map[string]string
	Vector []float32
}

// DocumentWriter stores documents into an index.
type DocumentWriter interface {
	UpsertDocuments(ctx context.Context, index string, docs []Document) error
}

// KeyPrefix is the key prefix of documents stored under index.
func KeyPrefix(index string) string {
	return index + ":"
}

// VectorField is the name under which document embeddings are stored.
const VectorField = "vector"
