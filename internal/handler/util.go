package handler

import (
	"encoding/json"
	"net/http"

	"github.com/brandconnect/marketplace-api/internal/apperr"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Kind    apperr.Kind `json:"kind,omitempty"`
	Message string      `json:"message"`
}

// writeError writes a JSON error response with an explicit status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]errorBody{
		"error": {Message: message},
	})
}

// writeAppError maps an error from the service layer onto an HTTP status
// using its kind.
func writeAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnavailable:
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]errorBody{
		"error": {Kind: kind, Message: err.Error()},
	})
}
