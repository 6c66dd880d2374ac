// Package ingest loads legal documents from JSON lines into the vector store.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/db"
	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/logger"
	"github.com/kailas-cloud/iajur/internal/repository/search"
)

// Defaults.
const (
	DefaultBatchSize = 32

	hnswM           = 16
	hnswEFConstruct = 200
	maxLineBytes    = 4 << 20
)

// Record is one input line.
type Record struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Validate checks the fields required to index a record.
func (r *Record) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return fmt.Errorf("%w: missing id", domain.ErrInvalidDocument)
	case strings.TrimSpace(r.Content) == "":
		return fmt.Errorf("%w: %s: missing content", domain.ErrInvalidDocument, r.ID)
	}
	for k := range r.Metadata {
		if k == search.FieldTitle || k == search.FieldContent || k == db.VectorField || !db.IsValidIdentifier(k) {
			return fmt.Errorf("%w: %s: bad metadata key %q", domain.ErrInvalidDocument, r.ID, k)
		}
	}
	return nil
}

// Options configure an ingest run.
type Options struct {
	Index      string
	Dimensions int
	BatchSize  int
}

// Report summarizes an ingest run.
type Report struct {
	Read    int `json:"read"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// Service embeds records and writes them to the store.
type Service struct {
	store    Store
	embedder domain.Embedder
	opts     Options
}

// New creates an ingest service.
func New(store Store, embedder domain.Embedder, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Service{store: store, embedder: embedder, opts: opts}
}

// Definition is the index schema documents are stored under.
func (s *Service) Definition() (*db.IndexDefinition, error) {
	def, err := db.NewIndex(s.opts.Index).
		Prefix(db.KeyPrefix(s.opts.Index)).
		Text(search.FieldTitle).
		Text(search.FieldContent).
		Tag(search.FieldNoteNumber).
		VectorHNSW(db.VectorField, s.opts.Dimensions, db.DistanceCosine, hnswM, hnswEFConstruct).
		Build()
	if err != nil {
		return nil, fmt.Errorf("index definition: %w", err)
	}
	return def, nil
}

// EnsureIndex creates the index unless it already exists.
func (s *Service) EnsureIndex(ctx context.Context) error {
	ok, err := s.store.IndexExists(ctx, s.opts.Index)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if ok {
		return nil
	}
	def, err := s.Definition()
	if err != nil {
		return err
	}
	if err := s.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	logger.FromContext(ctx).Info("index created", zap.String("index", s.opts.Index))
	return nil
}

// Ingest reads JSON lines from r, skipping blank lines. Invalid records are logged and
// skipped; embedding and store failures abort the run.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (Report, error) {
	if err := s.EnsureIndex(ctx); err != nil {
		return Report{}, err
	}

	log := logger.FromContext(ctx)
	var rep Report
	batch := make([]Record, 0, s.opts.BatchSize)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		rep.Read++

		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			rep.Skipped++
			log.Warn("skipping undecodable line", zap.Int("line", line), zap.Error(err))
			continue
		}
		if err := rec.Validate(); err != nil {
			rep.Skipped++
			log.Warn("skipping invalid record", zap.Int("line", line), zap.Error(err))
			continue
		}

		batch = append(batch, rec)
		if len(batch) == s.opts.BatchSize {
			if err := s.flush(ctx, batch); err != nil {
				return rep, err
			}
			rep.Written += len(batch)
			batch = batch[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return rep, fmt.Errorf("read input: %w", err)
	}
	if len(batch) > 0 {
		if err := s.flush(ctx, batch); err != nil {
			return rep, err
		}
		rep.Written += len(batch)
	}

	log.Info("ingest finished",
		zap.String("index", s.opts.Index),
		zap.Int("read", rep.Read),
		zap.Int("written", rep.Written),
		zap.Int("skipped", rep.Skipped),
	)
	return rep, nil
}

func (s *Service) flush(ctx context.Context, batch []Record) error {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = EmbeddingText(&batch[i])
	}

	res, err := domain.EmbedBatch(ctx, s.embedder, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}

	docs := make([]db.Document, len(batch))
	for i := range batch {
		vec := res.Embeddings[i]
		if s.opts.Dimensions > 0 && len(vec) != s.opts.Dimensions {
			return fmt.Errorf("%w: %s: got %d, want %d",
				domain.ErrVectorDimMismatch, batch[i].ID, len(vec), s.opts.Dimensions)
		}
		docs[i] = db.Document{ID: batch[i].ID, Fields: fields(&batch[i]), Vector: vec}
	}
	if err := s.store.UpsertDocuments(ctx, s.opts.Index, docs); err != nil {
		return fmt.Errorf("upsert documents: %w", err)
	}
	return nil
}

// EmbeddingText is the text embedded for a record: title and content.
func EmbeddingText(r *Record) string {
	if r.Title == "" {
		return r.Content
	}
	return r.Title + "\n\n" + r.Content
}

func fields(r *Record) map[string]string {
	out := make(map[string]string, len(r.Metadata)+2)
	for k, v := range r.Metadata {
		out[k] = v
	}
	out[search.FieldTitle] = r.Title
	out[search.FieldContent] = r.Content
	return out
}
