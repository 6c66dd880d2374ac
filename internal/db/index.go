package db

import (
	"errors"
	"fmt"
)

// DistanceMetric used for vector similarity.
type DistanceMetric string

// Distance metrics.
const (
	DistanceL2     DistanceMetric = "L2"
	DistanceIP     DistanceMetric = "IP"
	DistanceCosine DistanceMetric = "COSINE"
)

// VectorAlgorithm selects the vector index algorithm.
type VectorAlgorithm string

// Vector algorithms.
const (
	VectorHNSW VectorAlgorithm = "HNSW"
	VectorFlat VectorAlgorithm = "FLAT"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

// Field types.
const (
	IndexFieldTag IndexFieldType = iota
	IndexFieldText
	IndexFieldVector
)

// IndexField describes a single field of an index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	VectorAlgo        VectorAlgorithm
	VectorDim         int
	VectorDistance    DistanceMetric
	VectorM           int // HNSW max edges per node
	VectorEFConstruct int // HNSW build-time candidate list size
}

// IndexDefinition is a backend-neutral vector index definition. Redis turns it into
// FT.CREATE over hashes under Prefixes; Postgres into a table with a vector column.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// VectorField returns the first vector field, if any.
func (idx *IndexDefinition) VectorField() (IndexField, bool) {
	for _, f := range idx.Fields {
		if f.Type == IndexFieldVector {
			return f, true
		}
	}
	return IndexField{}, false
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i, f := range idx.Fields {
		if f.Name == "" {
			return fmt.Errorf("field name is required at index %d", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name: %s", f.Name)
		}
		seen[f.Name] = true
		if f.Type == IndexFieldVector && f.VectorDim <= 0 {
			return errors.New("vector field requires positive DIM")
		}
	}
	return nil
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_]+, which is safe both as a
// Redis index name and as an unquoted SQL table name.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
