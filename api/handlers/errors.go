// ABOUTME: Shared JSON response and error helpers for the API handlers
// ABOUTME: Error payloads use a stable {error, message} shape

package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the wire shape for every API error.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err, message string) {
	writeJSON(w, status, errorResponse{Error: err, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "Bad request", message)
}

// decodeBody decodes a JSON request body into dst, rejecting unknown
// fields so client typos surface instead of being silently dropped.
func decodeBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
