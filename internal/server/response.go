package server

import (
	"encoding/json"
	"net/http"

	"github.com/vankhoa205/tweet-extractor-service/internal/domain"
	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
)

// Error kinds exposed to API clients.
const (
	kindInvalidInput     = "invalid_input"
	kindNotFound         = "not_found"
	kindTimeout          = "timeout"
	kindExtractionFailed = "extraction_failed"
	kindSessionError     = "session_error"
	kindRateLimited      = "rate_limited"
	kindInternal         = "internal"
)

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Status string    `json:"status"`
	Error  errorBody `json:"error"`
}

type batchItem struct {
	URL    string             `json:"url"`
	Status string             `json:"status"`
	Data   *domain.PostRecord `json:"data,omitempty"`
	Error  *errorBody         `json:"error,omitempty"`
}

type batchResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Results []batchItem `json:"results"`
}

// classifyError maps an extraction error onto an API error kind and HTTP
// status. Timeouts outrank the exhaustion wrapper so a batch of slow pages
// reads as 504, not as a generic upstream failure.
func classifyError(err error) (string, int) {
	switch {
	case apperrors.IsInvalidInput(err):
		return kindInvalidInput, http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return kindNotFound, http.StatusNotFound
	case apperrors.IsTimeout(err):
		return kindTimeout, http.StatusGatewayTimeout
	case apperrors.IsSession(err):
		return kindSessionError, http.StatusBadGateway
	}

	if _, ok := apperrors.AsExtractionFailed(err); ok {
		return kindExtractionFailed, http.StatusBadGateway
	}
	return kindInternal, http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{
		Status: "error",
		Error:  errorBody{Kind: kind, Message: message},
	})
}

func writeExtractionError(w http.ResponseWriter, err error) {
	kind, status := classifyError(err)
	writeError(w, status, kind, err.Error())
}
