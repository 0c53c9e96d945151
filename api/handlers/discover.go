// ABOUTME: Feed discovery handler
// ABOUTME: Exposes crawl depth and validation as request parameters

package handlers

import (
	"net/http"
)

type discoverFeedsRequest struct {
	URL      string `json:"url"`
	Depth    int    `json:"depth,omitempty"`
	Validate *bool  `json:"validate,omitempty"`
}

// DiscoverFeeds handles POST /discover/feeds. Validation defaults to
// on; clients chasing speed over certainty can turn it off.
func (h *AnalysisHandler) DiscoverFeeds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discoverFeedsRequest
		if err := decodeBody(r, &req); err != nil {
			writeBadRequest(w, "invalid request body: "+err.Error())
			return
		}
		if req.URL == "" {
			writeBadRequest(w, "url is required")
			return
		}
		if req.Depth < 0 {
			writeBadRequest(w, "depth must not be negative")
			return
		}

		validate := true
		if req.Validate != nil {
			validate = *req.Validate
		}

		result := h.service.DiscoverFeeds(r.Context(), req.URL, req.Depth, validate)
		writeJSON(w, http.StatusOK, result)
	}
}
