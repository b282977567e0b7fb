package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
)

// Error labels carried in the "error" field of error responses.
const (
	labelNotFound          = "Account Not Found"
	labelInvalidJSON       = "Invalid JSON"
	labelMalformedRequest  = "Malformed Request"
	labelValidationFailed  = "Validation Failed"
	labelInsufficientFunds = "Insufficient Funds"
	labelInternal          = "Internal Server Error"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDomainError maps err to a status and label. Unexpected errors are
// logged and their detail is not exposed.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, label := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		dto.WriteError(w, status, label, "unexpected error")
		return
	}

	dto.WriteError(w, status, label, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes and labels.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, labelNotFound
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest, labelMalformedRequest
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, labelInsufficientFunds
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidOwner),
		errors.Is(err, domain.ErrInvalidBalance),
		errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest, labelValidationFailed
	default:
		return http.StatusInternalServerError, labelInternal
	}
}

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		dto.WriteError(w, http.StatusBadRequest, labelInvalidJSON, err.Error())
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
