// Package aggregate fans query variants out to the search service and merges the hits.
package aggregate

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/logger"
	"github.com/kailas-cloud/iajur/internal/metrics"
)

// Defaults for the aggregation budget.
const (
	DefaultTopK        = 5
	DefaultMaxResults  = 15
	DefaultParallelism = 3
)

// Options bound the fan-out.
type Options struct {
	TopK        int
	MaxResults  int
	Parallelism int
}

// Outcome is the merged result of one fan-out.
type Outcome struct {
	Results   []result.Result
	Attempted int
	Failed    int
}

// AllFailed reports whether every attempted variant failed.
func (o Outcome) AllFailed() bool {
	return o.Attempted > 0 && o.Failed == o.Attempted
}

// Service runs one search per variant and merges the results.
type Service struct {
	searcher Searcher
	opts     Options
}

// New creates an aggregator. Zero options fall back to the defaults.
func New(s Searcher, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	return &Service{searcher: s, opts: opts}
}

// Aggregate searches every variant concurrently. A failed variant contributes no
// results and is logged. The merged list keeps the first occurrence of each id in
// variant order, is sorted by score descending (stable) and capped at MaxResults.
func (s *Service) Aggregate(ctx context.Context, variants []string) Outcome {
	slots := make([][]result.Result, len(variants))
	failed := make([]bool, len(variants))
	log := logger.FromContext(ctx)

	var g errgroup.Group
	g.SetLimit(s.opts.Parallelism)
	for i, v := range variants {
		g.Go(func() error {
			res, err := s.searcher.Search(ctx, v, s.opts.TopK)
			label := strconv.Itoa(i)
			if err != nil {
				failed[i] = true
				metrics.SearchRequestsTotal.WithLabelValues(label, "error").Inc()
				log.Warn("variant search failed",
					zap.Int("variant", i),
					zap.String("query", v),
					zap.Error(err),
				)
				return nil
			}
			metrics.SearchRequestsTotal.WithLabelValues(label, "success").Inc()
			slots[i] = res
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	out := Outcome{Attempted: len(variants)}
	for _, f := range failed {
		if f {
			out.Failed++
		}
	}
	out.Results = Merge(slots, s.opts.MaxResults)
	metrics.AggregatedResults.Observe(float64(len(out.Results)))
	return out
}

// Merge flattens per-variant results, drops repeated ids (first wins), sorts by
// score descending keeping discovery order for ties and truncates to limit.
func Merge(perVariant [][]result.Result, limit int) []result.Result {
	seen := make(map[string]struct{})
	var merged []result.Result
	for _, results := range perVariant {
		for _, r := range results {
			if _, dup := seen[r.ID()]; dup {
				continue
			}
			seen[r.ID()] = struct{}{}
			merged = append(merged, r)
		}
	}

	slices.SortStableFunc(merged, func(a, b result.Result) int {
		return cmp.Compare(b.Score(), a.Score())
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
