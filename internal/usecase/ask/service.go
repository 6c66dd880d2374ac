// Package ask runs the question pipeline: context injection, query expansion,
// search aggregation, categorization, synthesis and memory.
package ask

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/confidence"
	"github.com/kailas-cloud/iajur/internal/domain/glossary"
	"github.com/kailas-cloud/iajur/internal/domain/quality"
	"github.com/kailas-cloud/iajur/internal/domain/query"
	"github.com/kailas-cloud/iajur/internal/domain/relevance"
	"github.com/kailas-cloud/iajur/internal/domain/session"
	"github.com/kailas-cloud/iajur/internal/domain/synthesis"
	"github.com/kailas-cloud/iajur/internal/logger"
	"github.com/kailas-cloud/iajur/internal/metrics"
	"github.com/kailas-cloud/iajur/internal/usecase/contextinject"
)

// MaxQuestionLength bounds a question, in runes, after trimming.
const MaxQuestionLength = 2000

// Answer is the response to one question.
type Answer struct {
	ID        string                  `json:"id"`
	SessionID string                  `json:"session_id"`
	Question  string                  `json:"question"`
	Synthesis synthesis.Synthesis     `json:"synthesis"`
	Analysis  query.Analysis          `json:"analysis"`
	Relevance confidence.Report       `json:"relevance"`
	Quality   quality.Report          `json:"quality"`
	Context   contextinject.Injection `json:"context"`
	CreatedAt time.Time               `json:"created_at"`
}

// Service answers questions within a session.
type Service struct {
	resolver   *glossary.Resolver
	engine     *query.Engine
	injector   Injector
	aggregator Aggregator
	synth      Synthesizer
	memory     Memory
}

// New creates the pipeline.
func New(
	resolver *glossary.Resolver,
	injector Injector,
	aggregator Aggregator,
	synth Synthesizer,
	memory Memory,
) *Service {
	return &Service{
		resolver:   resolver,
		engine:     query.NewEngine(resolver),
		injector:   injector,
		aggregator: aggregator,
		synth:      synth,
		memory:     memory,
	}
}

// Ask answers question for sessionID. Only invalid input is returned as an error;
// upstream failures degrade into the synthesis outcome.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*Answer, error) {
	if !session.ValidID(sessionID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSession, sessionID)
	}
	question, err := ValidateQuestion(question)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.QuestionDuration.Observe(time.Since(start).Seconds()) }()

	ctx = logger.With(ctx, zap.String("session_id", sessionID))
	log := logger.FromContext(ctx)

	inj := s.injector.Inject(ctx, sessionID, question)
	q := query.Query{Question: question, Addendum: inj.Addendum}
	analysis := s.engine.Analyze(q)

	out := s.aggregator.Aggregate(ctx, analysis.Variants)
	set := relevance.Categorize(out.Results)

	var syn synthesis.Synthesis
	if out.AllFailed() && len(out.Results) == 0 {
		log.Warn("every search variant failed", zap.Int("variants", out.Attempted))
		syn = synthesis.Synthesis{
			Outcome:        synthesis.OutcomeNoResults,
			Message:        synthesis.NoResultsMessage(question),
			TopSources:     []string{},
			ProcessingTime: time.Since(start).Seconds(),
		}
		metrics.SynthesisOutcomesTotal.WithLabelValues(string(syn.Outcome)).Inc()
	} else {
		syn = s.synth.Synthesize(ctx, q, out.Results, set)
	}

	report := quality.Assess(s.resolver, quality.Input{
		Original: analysis.Original,
		Expanded: analysis.Expanded,
		Terms:    analysis.Terms,
	}, out.Results)
	in := s.memory.Add(sessionID, question, syn.Text())

	log.Info("question answered",
		zap.String("answer_id", in.ID()),
		zap.Bool("followup", inj.Followup.IsFollowup),
		zap.Int("variants", len(analysis.Variants)),
		zap.Int("failed_variants", out.Failed),
		zap.Int("results", len(out.Results)),
		zap.String("outcome", string(syn.Outcome)),
	)

	return &Answer{
		ID:        in.ID(),
		SessionID: sessionID,
		Question:  question,
		Synthesis: syn,
		Analysis:  analysis,
		Relevance: confidence.Assess(set),
		Quality:   report,
		Context:   inj,
		CreatedAt: in.CreatedAt(),
	}, nil
}

// ClearSession forgets the history of one session.
func (s *Service) ClearSession(sessionID string) error {
	if !session.ValidID(sessionID) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSession, sessionID)
	}
	s.memory.Clear(sessionID)
	s.injector.Forget(sessionID)
	return nil
}

// ClearAll forgets every session.
func (s *Service) ClearAll() {
	s.memory.ClearAll()
	s.injector.ForgetAll()
}

// MemoryStats summarizes the history of one session.
func (s *Service) MemoryStats(sessionID string) (session.Stats, error) {
	if !session.ValidID(sessionID) {
		return session.Stats{}, fmt.Errorf("%w: %q", domain.ErrInvalidSession, sessionID)
	}
	return s.memory.Stats(sessionID), nil
}

// ValidateQuestion trims q and checks its length.
func ValidateQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", domain.ErrEmptyQuestion
	}
	if n := utf8.RuneCountInString(q); n > MaxQuestionLength {
		return "", fmt.Errorf("%w: %d characters, max %d", domain.ErrQuestionTooLong, n, MaxQuestionLength)
	}
	return q, nil
}
