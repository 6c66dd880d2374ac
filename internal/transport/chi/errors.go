package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/iajur/internal/domain"
)

// ErrorCode is a machine-readable error class.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeTermNotFound     ErrorCode = "term_not_found"
	CodeProviderError    ErrorCode = "provider_error"
	CodeNotFound         ErrorCode = "not_found"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrEmptyQuestion, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrQuestionTooLong, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrTermNotFound, http.StatusNotFound, CodeTermNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, CodeProviderError),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuestion,
		domain.ErrQuestionTooLong,
		domain.ErrInvalidSession,
		domain.ErrTermNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
