// Package contextinject detects follow-up questions and builds the prior-context
// addendum appended to the outgoing query.
package contextinject

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/domain/followup"
	"github.com/kailas-cloud/iajur/internal/domain/session"
	"github.com/kailas-cloud/iajur/internal/domain/text"
	"github.com/kailas-cloud/iajur/internal/logger"
	"github.com/kailas-cloud/iajur/internal/metrics"
)

// Defaults.
const (
	DefaultCooldown       = 2 * time.Second
	DefaultHistoryWindow  = 3
	DefaultFallbackWindow = 2
	DefaultAnswerPreview  = 200
)

const (
	addendumHeader = "\n\nCONTEXTO DAS CONVERSAS ANTERIORES:\n"
	addendumFooter = "\n\nPor favor, responda à consulta atual considerando o contexto das conversas anteriores."
)

// topicGroups are the domain areas used to match prior questions with the current one.
var topicGroups = [][]string{
	{"licença", "licenças", "afastamento", "afastamentos", "férias"},
	{"progressão", "promoção", "carreira", "enquadramento"},
	{"indenização", "auxílio", "ajuda", "diária", "diárias", "custeio"},
	{"aposentadoria", "abono", "pensão", "previdência"},
	{"acumulação", "acumular", "inacumulável", "cargos"},
	{"art", "rrt", "crea", "cau", "confea", "engenharia", "obra", "obras"},
	{"remoção", "redistribuição", "recondução", "vacância", "substituição"},
}

// Options tune the injector. Zero values fall back to the defaults.
type Options struct {
	Cooldown       time.Duration
	HistoryWindow  int
	FallbackWindow int
	AnswerPreview  int
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for the cooldown.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Injection is the follow-up decision for one question.
type Injection struct {
	Followup followup.Result `json:"followup"`
	Addendum string          `json:"-"`
	Used     int             `json:"context_interactions"`
	Cooldown bool            `json:"cooldown"`
}

// Service decides whether a question continues the session and, if so, formats the
// relevant history. At most one decision per session is computed per cooldown window.
type Service struct {
	history History
	opts    Options
	now     func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// New creates an injector.
func New(h History, opts Options, o ...Option) *Service {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.FallbackWindow <= 0 {
		opts.FallbackWindow = DefaultFallbackWindow
	}
	if opts.AnswerPreview <= 0 {
		opts.AnswerPreview = DefaultAnswerPreview
	}
	s := &Service{history: h, opts: opts, now: time.Now, last: make(map[string]time.Time)}
	for _, fn := range o {
		fn(s)
	}
	return s
}

// Inject scores question against the session history and returns the addendum to
// append. During the cooldown window no addendum is produced.
func (s *Service) Inject(ctx context.Context, sessionID, question string) Injection {
	if !s.acquire(sessionID) {
		metrics.FollowupDecisionsTotal.WithLabelValues("cooldown").Inc()
		return Injection{Cooldown: true}
	}

	recent := s.history.Recent(sessionID, s.opts.HistoryWindow)
	res := followup.Detect(recent, question)
	if !res.IsFollowup {
		metrics.FollowupDecisionsTotal.WithLabelValues("new_topic").Inc()
		return Injection{Followup: res}
	}

	selected := Select(recent, question, s.opts.FallbackWindow)
	metrics.FollowupDecisionsTotal.WithLabelValues("followup").Inc()
	logger.FromContext(ctx).Debug("follow-up detected",
		zap.Float64("score", res.Score),
		zap.Int("context_interactions", len(selected)),
	)
	return Injection{
		Followup: res,
		Addendum: Format(selected, s.opts.AnswerPreview),
		Used:     len(selected),
	}
}

// Forget drops the cooldown state of a session.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, sessionID)
}

// ForgetAll drops the cooldown state of every session.
func (s *Service) ForgetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.last)
}

// acquire records a computation for the session unless one happened within the cooldown.
func (s *Service) acquire(sessionID string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.last[sessionID]; ok && now.Sub(prev) < s.opts.Cooldown {
		return false
	}
	s.last[sessionID] = now
	return true
}

// Select keeps the recent interactions whose question shares a topic group with
// question. Without any match it falls back to the last fallback interactions.
func Select(recent []session.Interaction, question string, fallback int) []session.Interaction {
	want := topicsOf(question)
	var out []session.Interaction
	if len(want) > 0 {
		for _, in := range recent {
			for t := range topicsOf(in.Question()) {
				if _, ok := want[t]; ok {
					out = append(out, in)
					break
				}
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	if len(recent) > fallback {
		return recent[len(recent)-fallback:]
	}
	return recent
}

// Format renders the addendum for the selected interactions, each answer cut to preview runes.
func Format(selected []session.Interaction, preview int) string {
	if len(selected) == 0 {
		return ""
	}
	lines := make([]string, 0, len(selected))
	for _, in := range selected {
		lines = append(lines, "Pergunta anterior: "+in.Question()+
			"\nResposta: "+text.Truncate(in.Answer(), preview, "")+"...")
	}
	return addendumHeader + strings.Join(lines, "\n") + addendumFooter
}

func topicsOf(s string) map[int]struct{} {
	words := text.KeywordSet(s)
	out := make(map[int]struct{})
	for i, group := range topicGroups {
		for _, w := range group {
			if _, ok := words[w]; ok {
				out[i] = struct{}{}
				break
			}
		}
	}
	return out
}
