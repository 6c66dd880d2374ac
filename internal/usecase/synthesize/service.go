// Package synthesize turns the high-tier evidence of a question into a structured answer.
package synthesize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/query"
	"github.com/kailas-cloud/iajur/internal/domain/relevance"
	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/domain/synthesis"
	"github.com/kailas-cloud/iajur/internal/logger"
	"github.com/kailas-cloud/iajur/internal/metrics"
)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for processing time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// Service coordinates prompt building, generation and output parsing.
type Service struct {
	gen     Generator
	now     func() time.Time
	timeout time.Duration
}

// New creates a coordinator.
func New(gen Generator, opts ...Option) *Service {
	s := &Service{gen: gen, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize always returns a well-formed synthesis. Generation is skipped when the
// set has no high-tier result; generation errors, panics and malformed output yield
// fallbacks. The prompt carries q with its context addendum; fallback messages name
// only the question.
func (s *Service) Synthesize(
	ctx context.Context, q query.Query, results []result.Result, set relevance.Set,
) synthesis.Synthesis {
	question := q.Question
	start := s.now()
	out := synthesis.Synthesis{
		TotalDocuments: len(results),
		TopSources:     synthesis.SourceLines(results),
	}
	defer func() { metrics.SynthesisOutcomesTotal.WithLabelValues(string(out.Outcome)).Inc() }()

	if len(set.High) == 0 {
		out.Outcome = synthesis.OutcomeNoEvidence
		out.Message = synthesis.NoEvidenceMessage(question)
		out.ProcessingTime = s.elapsed(start)
		return out
	}

	log := logger.FromContext(ctx)
	raw, err := s.generate(ctx, synthesis.BuildPrompt(q.Outgoing(), set.High))
	if err != nil {
		log.Warn("generation failed", zap.Error(err))
		out.Outcome = synthesis.OutcomeFailed
		out.Message = synthesis.FailedMessage(question, set.High)
		out.Error = synthesis.FallbackError
		out.ProcessingTime = s.elapsed(start)
		return out
	}

	answer, err := synthesis.Parse(raw)
	if err != nil {
		log.Warn("malformed generation output",
			zap.Error(err),
			zap.Int("raw_len", len(raw)),
		)
		out.Outcome = synthesis.OutcomeMalformed
		out.Error = synthesis.FallbackError
		out.RawResponse = raw
		out.ProcessingTime = s.elapsed(start)
		return out
	}

	out.Outcome = synthesis.OutcomeParsed
	out.Answer = &answer
	out.ProcessingTime = s.elapsed(start)
	return out
}

func (s *Service) generate(ctx context.Context, prompt string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = "", fmt.Errorf("%w: generator panic: %v", domain.ErrGenerationFailed, r)
		}
	}()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.gen.Generate(ctx, prompt)
}

func (s *Service) elapsed(start time.Time) float64 {
	return s.now().Sub(start).Seconds()
}
