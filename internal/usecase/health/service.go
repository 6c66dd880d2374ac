package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the vector store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	embedding  Checker
	generation Checker
}

// New creates a Service. embedding and generation can be nil.
func New(db DBPinger, embedding, generation Checker) *Service {
	return &Service{db: db, embedding: embedding, generation: generation}
}

// Check runs health checks against all components. A store failure makes the
// service unhealthy; a provider failure only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	log := logger.FromContext(ctx)

	status := Healthy
	if err := s.db.Ping(ctx); err != nil {
		log.Warn("health: database check failed", zap.Error(err))
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for name, c := range map[string]Checker{"embedding": s.embedding, "generation": s.generation} {
		if c == nil {
			continue
		}
		if err := c.HealthCheck(ctx); err != nil {
			log.Warn("health: provider check failed", zap.String("component", name), zap.Error(err))
			checks[name] = CheckError
			if status == Healthy {
				status = Degraded
			}
			continue
		}
		checks[name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
