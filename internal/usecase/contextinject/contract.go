package contextinject

import "github.com/kailas-cloud/iajur/internal/domain/session"

// History reads recent interactions of a session, oldest first.
type History interface {
	Recent(sessionID string, n int) []session.Interaction
}
