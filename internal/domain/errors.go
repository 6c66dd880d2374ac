package domain

import "errors"

var (
	// ErrEmptyQuestion signals a blank question.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrQuestionTooLong signals a question above the accepted length.
	ErrQuestionTooLong = errors.New("question too long")
	// ErrInvalidSession signals a malformed session identifier.
	ErrInvalidSession = errors.New("invalid session id")
	// ErrTermNotFound signals a glossary lookup miss.
	ErrTermNotFound = errors.New("term not found")
	// ErrSearchFailed signals a search service failure.
	ErrSearchFailed = errors.New("search failed")
	// ErrGenerationFailed signals a generation service failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrMalformedOutput signals generated text that does not match the answer schema.
	ErrMalformedOutput = errors.New("malformed generation output")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidDocument signals a document that cannot be ingested.
	ErrInvalidDocument = errors.New("invalid document")
)
