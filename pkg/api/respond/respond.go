// Package respond writes JSON responses and maps pipeline errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/llm"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error message.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// StatusFor maps a request-level failure to its status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, llm.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrProviderUnknown):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// Failure logs err and writes it with the mapped status.
func Failure(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := StatusFor(err)
	logger.Error("request failed", zap.String("op", op), zap.Int("status", status), zap.Error(err))
	Error(w, status, err.Error())
}

// Decode reads a JSON request body into v, writing a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
