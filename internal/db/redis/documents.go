package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/iajur/internal/db"
)

// UpsertDocuments writes each document as a hash under the index prefix in one DoMulti
// round-trip. The embedding goes into the vector field as little-endian float32 bytes.
func (s *Store) UpsertDocuments(ctx context.Context, index string, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}

	prefix := db.KeyPrefix(index)
	cmds := make([]rueidis.Completed, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document %d: id is required", i)
		}
		cmd := s.b().Hset().Key(prefix + doc.ID).FieldValue()
		for _, k := range sortedKeys(doc.Fields) {
			if k == db.VectorField {
				continue
			}
			cmd = cmd.FieldValue(k, doc.Fields[k])
		}
		if len(doc.Vector) > 0 {
			cmd = cmd.FieldValue(db.VectorField, vectorToBytes(doc.Vector))
		}
		cmds[i] = cmd.Build()
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("document %s: %w", docs[i].ID, err)}
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
