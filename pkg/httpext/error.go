package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardised JSON error response
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// JsonResponse writes v as a JSON body with the given status code
func JsonResponse(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent, nothing left to do but log
		log.Error().Err(err).Int("status", code).Msg("Failed to encode response body")
	}
}

// JsonError writes a JSON error response with the specified status code
func JsonError(w http.ResponseWriter, message string, code int) {
	JsonResponse(w, ErrorResponse{Error: message}, code)
}

// JsonErrorWithDetails writes a JSON error response carrying a description of the failure
func JsonErrorWithDetails(w http.ResponseWriter, code int, resp ErrorResponse) {
	JsonResponse(w, resp, code)
}
