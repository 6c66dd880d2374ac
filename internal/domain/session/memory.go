// Package session keeps a bounded, ordered conversational history per session id.
package session

import (
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/iajur/internal/domain/text"
)

const (
	// DefaultCapacity is the number of interactions kept per session.
	DefaultCapacity = 10
	// MaxIDLength bounds a session identifier.
	MaxIDLength = 128

	recentTopicSessions = 3
	recentTopicWords    = 3
	recentQuestions     = 5
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// ValidID reports whether id is usable as a session identifier.
func ValidID(id string) bool {
	return len(id) <= MaxIDLength && idPattern.MatchString(id)
}

// Interaction is one immutable question/answer exchange.
type Interaction struct {
	id        string
	sessionID string
	question  string
	answer    string
	keywords  []string
	createdAt time.Time
}

// ID returns the interaction identifier.
func (i Interaction) ID() string { return i.id }

// SessionID returns the owning session.
func (i Interaction) SessionID() string { return i.sessionID }

// Question returns the question text.
func (i Interaction) Question() string { return i.question }

// Answer returns the plain-text answer.
func (i Interaction) Answer() string { return i.answer }

// Keywords returns the keywords extracted from the question.
func (i Interaction) Keywords() []string { return slices.Clone(i.keywords) }

// CreatedAt returns the creation time.
func (i Interaction) CreatedAt() time.Time { return i.createdAt }

// Stats summarizes one session.
type Stats struct {
	SessionID         string     `json:"session_id"`
	TotalInteractions int        `json:"total_interactions"`
	Capacity          int        `json:"max_context_size"`
	RecentTopics      [][]string `json:"recent_topics"`
	RecentQuestions   []string   `json:"recent_questions"`
}

// Option configures a Memory.
type Option func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// Memory maps session ids to bounded FIFO histories. Safe for concurrent use; one mutex
// guards every read-modify-write so the capacity bound holds under concurrent Add.
type Memory struct {
	mu       sync.Mutex
	capacity int
	sessions map[string][]Interaction
	now      func() time.Time
}

// New creates a Memory holding at most capacity interactions per session.
func New(capacity int, opts ...Option) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Memory{
		capacity: capacity,
		sessions: make(map[string][]Interaction),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Capacity returns the per-session bound.
func (m *Memory) Capacity() int { return m.capacity }

// Add appends an interaction, evicting the oldest when the session is full.
func (m *Memory) Add(sessionID, question, answer string) Interaction {
	in := Interaction{
		id:        uuid.NewString(),
		sessionID: sessionID,
		question:  question,
		answer:    answer,
		keywords:  text.Keywords(question, text.MaxKeywords),
		createdAt: m.now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	hist := m.sessions[sessionID]
	if len(hist) >= m.capacity {
		hist = slices.Delete(hist, 0, len(hist)-m.capacity+1)
	}
	m.sessions[sessionID] = append(hist, in)
	return in
}

// Get returns a snapshot of the session history, oldest first.
func (m *Memory) Get(sessionID string) []Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sessions[sessionID])
}

// Recent returns a snapshot of the last n interactions, oldest first.
func (m *Memory) Recent(sessionID string, n int) []Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	hist := m.sessions[sessionID]
	if n < len(hist) {
		hist = hist[len(hist)-n:]
	}
	return slices.Clone(hist)
}

// Len returns the number of interactions in a session.
func (m *Memory) Len(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions[sessionID])
}

// Clear drops one session.
func (m *Memory) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// ClearAll drops every session.
func (m *Memory) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.sessions)
}

// Sessions returns the number of live sessions.
func (m *Memory) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stats summarizes a session: size, capacity, the first keywords of the last three
// questions and the last five questions.
func (m *Memory) Stats(sessionID string) Stats {
	hist := m.Get(sessionID)
	st := Stats{
		SessionID:         sessionID,
		TotalInteractions: len(hist),
		Capacity:          m.capacity,
		RecentTopics:      [][]string{},
		RecentQuestions:   []string{},
	}
	for _, in := range tail(hist, recentTopicSessions) {
		kw := in.keywords
		if len(kw) > recentTopicWords {
			kw = kw[:recentTopicWords]
		}
		st.RecentTopics = append(st.RecentTopics, slices.Clone(kw))
	}
	for _, in := range tail(hist, recentQuestions) {
		st.RecentQuestions = append(st.RecentQuestions, in.question)
	}
	return st
}

func tail(hist []Interaction, n int) []Interaction {
	if n < len(hist) {
		return hist[len(hist)-n:]
	}
	return hist
}
