package domain

import "context"

// Generator turns a prompt into text. Implementations wrap failures with ErrGenerationFailed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
