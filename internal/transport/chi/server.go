// Package chi exposes the question pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/glossary"
	"github.com/kailas-cloud/iajur/internal/domain/session"
	"github.com/kailas-cloud/iajur/internal/logger"
	"github.com/kailas-cloud/iajur/internal/metrics"
	askuc "github.com/kailas-cloud/iajur/internal/usecase/ask"
	healthuc "github.com/kailas-cloud/iajur/internal/usecase/health"
)

const maxBodyBytes = 64 << 10

// Asker is the question pipeline.
type Asker interface {
	Ask(ctx context.Context, sessionID, question string) (*askuc.Answer, error)
	ClearSession(sessionID string) error
	ClearAll()
	MemoryStats(sessionID string) (session.Stats, error)
}

// HealthChecker aggregates component checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// QuestionRequest is the body of POST /v1/sessions/{session}/questions.
type QuestionRequest struct {
	Question string `json:"question"`
}

// GlossaryResponse lists every glossary entry.
type GlossaryResponse struct {
	Entries []glossary.Entry `json:"entries"`
	Stats   glossary.Stats   `json:"stats"`
}

// Server holds the HTTP handlers.
type Server struct {
	ask           Asker
	glossary      *glossary.Resolver
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(ask Asker, resolver *glossary.Resolver, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		ask:           ask,
		glossary:      resolver,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Router builds the chi router with the middleware stack.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions/{session}/questions", s.AskQuestion)
		r.Get("/sessions/{session}/memory", s.GetMemory)
		r.Delete("/sessions/{session}/memory", s.ClearMemory)
		r.Delete("/memory", s.ClearAllMemory)
		r.Get("/glossary", s.ListGlossary)
		r.Get("/glossary/{term}", s.GetTerm)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// AskQuestion handles POST /v1/sessions/{session}/questions.
func (s *Server) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.ask.Ask(r.Context(), chi.URLParam(r, "session"), req.Question)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// GetMemory handles GET /v1/sessions/{session}/memory.
func (s *Server) GetMemory(w http.ResponseWriter, r *http.Request) {
	st, err := s.ask.MemoryStats(chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ClearMemory handles DELETE /v1/sessions/{session}/memory.
func (s *Server) ClearMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.ask.ClearSession(chi.URLParam(r, "session")); err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// ClearAllMemory handles DELETE /v1/memory.
func (s *Server) ClearAllMemory(w http.ResponseWriter, _ *http.Request) {
	s.ask.ClearAll()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// ListGlossary handles GET /v1/glossary.
func (s *Server) ListGlossary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GlossaryResponse{
		Entries: s.glossary.Entries(),
		Stats:   s.glossary.Stats(),
	})
}

// GetTerm handles GET /v1/glossary/{term}.
func (s *Server) GetTerm(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	e, ok := s.glossary.Expand(term)
	if !ok {
		s.handleDomainError(r.Context(), w, fmt.Errorf("%w: %q", domain.ErrTermNotFound, term))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
