package ask

import (
	"context"

	"github.com/kailas-cloud/iajur/internal/domain/query"
	"github.com/kailas-cloud/iajur/internal/domain/relevance"
	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/domain/session"
	"github.com/kailas-cloud/iajur/internal/domain/synthesis"
	"github.com/kailas-cloud/iajur/internal/usecase/aggregate"
	"github.com/kailas-cloud/iajur/internal/usecase/contextinject"
)

// Injector decides follow-ups and builds the prior-context addendum.
type Injector interface {
	Inject(ctx context.Context, sessionID, question string) contextinject.Injection
	Forget(sessionID string)
	ForgetAll()
}

// Aggregator searches every variant and merges the results.
type Aggregator interface {
	Aggregate(ctx context.Context, variants []string) aggregate.Outcome
}

// Synthesizer turns categorized evidence into an answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, q query.Query, results []result.Result, set relevance.Set) synthesis.Synthesis
}

// Memory stores the conversational history.
type Memory interface {
	Add(sessionID, question, answer string) session.Interaction
	Clear(sessionID string)
	ClearAll()
	Stats(sessionID string) session.Stats
}
