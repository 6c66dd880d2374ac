// Package postgres is a pgvector-backed implementation of db.VectorStore.
// Each index is a table of (id, fields jsonb, embedding vector(dim)).
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/iajur/internal/db"
)

var _ db.VectorStore = (*Store)(nil)

// Config holds connection parameters for a Postgres store.
type Config struct {
	DSN          string
	MaxOpenConns int
}

// Store keeps legal documents in pgvector tables.
type Store struct {
	conn *sql.DB
}

// NewStore opens a connection pool. It does not dial until first use.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("dsn is required")
	}
	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return &Store{conn: conn}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	_ = s.conn.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for postgres: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// CreateIndex creates the extension, the table and an HNSW cosine index.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	stmts, err := createStatements(def)
	if err != nil {
		return err
	}
	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return err
	}
	if exists {
		return db.ErrIndexExists
	}
	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpCreateTable, Err: err}
		}
	}
	return nil
}

// DropIndex drops the table backing the index.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	exists, err := s.IndexExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return db.ErrIndexNotFound
	}
	if _, err := s.conn.ExecContext(ctx, "DROP TABLE "+pq.QuoteIdentifier(name)); err != nil {
		return &db.Error{Op: db.OpDropTable, Err: err}
	}
	return nil
}

// IndexExists reports whether the backing table exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	var reg sql.NullString
	err := s.conn.QueryRowContext(ctx, "SELECT to_regclass($1)::text", pq.QuoteIdentifier(name)).Scan(&reg)
	if err != nil {
		return false, &db.Error{Op: db.OpTableExists, Err: err}
	}
	return reg.Valid, nil
}

// UpsertDocuments inserts or replaces documents inside one transaction.
func (s *Store) UpsertDocuments(ctx context.Context, index string, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if !db.IsValidIdentifier(index) {
		return fmt.Errorf("invalid index name %q", index)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertStatement(index))
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = stmt.Close() }()

	for i, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document %d: id is required", i)
		}
		fields, err := json.Marshal(doc.Fields)
		if err != nil {
			return fmt.Errorf("document %s: encode fields: %w", doc.ID, err)
		}
		var vec any
		if len(doc.Vector) > 0 {
			vec = pgvector.NewVector(doc.Vector)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, fields, vec); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("document %s: %w", doc.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// SearchKNN orders rows by cosine distance. Scores are similarities clamped to [0, 1].
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if !db.IsValidIdentifier(q.IndexName) {
		return nil, fmt.Errorf("invalid index name %q", q.IndexName)
	}
	if len(q.Vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}

	rows, err := s.conn.QueryContext(ctx, knnStatement(q.IndexName), pgvector.NewVector(q.Vector), q.K)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelectKNN, Err: err}
	}
	defer func() { _ = rows.Close() }()

	prefix := db.KeyPrefix(q.IndexName)
	var entries []db.SearchEntry
	for rows.Next() {
		var (
			id       string
			rawField []byte
			distance float64
		)
		if err := rows.Scan(&id, &rawField, &distance); err != nil {
			return nil, &db.Error{Op: db.OpSelectKNN, Err: err}
		}
		fields, err := decodeFields(rawField, q.ReturnFields)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		entries = append(entries, db.SearchEntry{
			Key:    prefix + id,
			Score:  max(0, 1.0-distance),
			Fields: fields,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelectKNN, Err: err}
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

func createStatements(def *db.IndexDefinition) ([]string, error) {
	if def == nil {
		return nil, errors.New("index definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	vf, ok := def.VectorField()
	if !ok {
		return nil, errors.New("index requires a vector field")
	}

	table := pq.QuoteIdentifier(def.Name)
	opclass := "vector_cosine_ops"
	switch vf.VectorDistance {
	case db.DistanceL2:
		opclass = "vector_l2_ops"
	case db.DistanceIP:
		opclass = "vector_ip_ops"
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE %s (
	id TEXT PRIMARY KEY,
	fields JSONB NOT NULL DEFAULT '{}'::jsonb,
	embedding vector(%d)
)`, table, vf.VectorDim),
	}
	if vf.VectorAlgo == db.VectorHNSW {
		var with []string
		if vf.VectorM > 0 {
			with = append(with, fmt.Sprintf("m = %d", vf.VectorM))
		}
		if vf.VectorEFConstruct > 0 {
			with = append(with, fmt.Sprintf("ef_construction = %d", vf.VectorEFConstruct))
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s USING hnsw (embedding %s)",
			pq.QuoteIdentifier(def.Name+"_embedding_idx"), table, opclass)
		if len(with) > 0 {
			stmt += " WITH (" + strings.Join(with, ", ") + ")"
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func upsertStatement(index string) string {
	return fmt.Sprintf(`INSERT INTO %s (id, fields, embedding) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET fields = EXCLUDED.fields, embedding = EXCLUDED.embedding`,
		pq.QuoteIdentifier(index))
}

func knnStatement(index string) string {
	return fmt.Sprintf(`SELECT id, fields, embedding <=> $1 AS distance FROM %s
WHERE embedding IS NOT NULL ORDER BY distance LIMIT $2`, pq.QuoteIdentifier(index))
}

// decodeFields parses a JSONB object of strings, keeping only want when set.
func decodeFields(raw []byte, want []string) (map[string]string, error) {
	all := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &all); err != nil {
			return nil, fmt.Errorf("decode fields: %w", err)
		}
	}
	if len(want) == 0 {
		return all, nil
	}
	out := make(map[string]string, len(want))
	for _, k := range want {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}
