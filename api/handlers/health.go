// ABOUTME: Health check endpoint
// ABOUTME: Liveness only, no dependency probing

package handlers

import "net/http"

// Health handles GET /health.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
