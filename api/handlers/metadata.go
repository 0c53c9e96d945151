// ABOUTME: Page metadata handler for quick link-preview extraction
// ABOUTME: Thin pass over Open Graph and standard meta tags

package handlers

import (
	"net/http"

	coreerrors "pagelens-api/core/errors"
)

type metadataRequest struct {
	URL string `json:"url"`
}

// GetPageMetadata handles POST /metadata.
func (h *AnalysisHandler) GetPageMetadata() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req metadataRequest
		if err := decodeBody(r, &req); err != nil {
			writeBadRequest(w, "invalid request body: "+err.Error())
			return
		}
		if req.URL == "" {
			writeBadRequest(w, "url is required")
			return
		}

		meta, err := h.service.GetPageMetadata(r.Context(), req.URL)
		if err != nil {
			switch {
			case coreerrors.IsTransport(err):
				writeError(w, http.StatusBadGateway, "Fetch failed", err.Error())
			case coreerrors.IsParse(err):
				writeError(w, http.StatusUnprocessableEntity, "Parse failed", err.Error())
			default:
				writeBadRequest(w, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, meta)
	}
}
