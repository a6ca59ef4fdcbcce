// internal/server/handlers/respond.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"globalfreq/internal/logging"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil {
		if code >= 500 {
			logging.Error().Err(err).Int("code", code).Str("message", message).Msg("HTTP error")
		} else {
			response["detail"] = err.Error()
		}
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// Common errors
var (
	ErrNotFound = errors.New("not found")
)
