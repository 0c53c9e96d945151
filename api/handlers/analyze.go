// ABOUTME: Analysis handlers for single-URL and batch endpoints
// ABOUTME: Translates JSON requests into analysis calls and records back to JSON

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	coreconfig "pagelens-api/core/config"
	"pagelens-api/core/domain"
)

// maxBatchURLs bounds one batch request.
const maxBatchURLs = 100

// AnalysisService is the operations surface the handlers call.
type AnalysisService interface {
	AnalyzeOne(ctx context.Context, url, hint string, opts coreconfig.AnalysisOptions) *domain.AnalysisRecord
	AnalyzeBatch(ctx context.Context, urls []string, opts coreconfig.AnalysisOptions) *domain.BatchResult
	DiscoverFeeds(ctx context.Context, url string, depth int, validate bool) *domain.FeedDiscoveryResult
	AnalyzeAPIPayload(endpointURL string, payload []byte, schemaHint string) *domain.ApiAnalysisRecord
	GetPageMetadata(ctx context.Context, url string) (*domain.PageMetadata, error)
}

// AnalysisHandler handles the analysis endpoints.
type AnalysisHandler struct {
	service AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// analysisOptionsDTO is the request-level subset of analysis options.
// Absent fields keep the server defaults.
type analysisOptionsDTO struct {
	TimeoutSeconds  *int  `json:"timeout_seconds,omitempty"`
	ExtractLinks    *bool `json:"extract_links,omitempty"`
	ExtractImages   *bool `json:"extract_images,omitempty"`
	DiscoverFeeds   *bool `json:"discover_feeds,omitempty"`
	CalculateScores *bool `json:"calculate_scores,omitempty"`
	DetectLanguage  *bool `json:"detect_language,omitempty"`
	MaxConcurrent   *int  `json:"max_concurrent,omitempty"`
}

// apply overlays the request options on the defaults.
func (d *analysisOptionsDTO) apply(opts coreconfig.AnalysisOptions) coreconfig.AnalysisOptions {
	if d == nil {
		return opts
	}
	if d.TimeoutSeconds != nil && *d.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(*d.TimeoutSeconds) * time.Second
	}
	if d.ExtractLinks != nil {
		opts.ExtractLinks = *d.ExtractLinks
	}
	if d.ExtractImages != nil {
		opts.ExtractImages = *d.ExtractImages
	}
	if d.DiscoverFeeds != nil {
		opts.DiscoverFeeds = *d.DiscoverFeeds
	}
	if d.CalculateScores != nil {
		opts.CalculateScores = *d.CalculateScores
	}
	if d.DetectLanguage != nil {
		opts.DetectLanguage = *d.DetectLanguage
	}
	if d.MaxConcurrent != nil && *d.MaxConcurrent > 0 {
		opts.MaxConcurrent = *d.MaxConcurrent
	}
	return opts
}

type analyzeRequest struct {
	URL             string              `json:"url"`
	ContentTypeHint string              `json:"content_type_hint,omitempty"`
	Options         *analysisOptionsDTO `json:"options,omitempty"`
}

// AnalyzeOne handles POST /analyze.
func (h *AnalysisHandler) AnalyzeOne(defaults coreconfig.AnalysisOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := decodeBody(r, &req); err != nil {
			writeBadRequest(w, "invalid request body: "+err.Error())
			return
		}
		if req.URL == "" {
			writeBadRequest(w, "url is required")
			return
		}

		record := h.service.AnalyzeOne(r.Context(), req.URL, req.ContentTypeHint, req.Options.apply(defaults))
		writeJSON(w, http.StatusOK, record)
	}
}

type analyzeBatchRequest struct {
	URLs    []string            `json:"urls"`
	Options *analysisOptionsDTO `json:"options,omitempty"`
}

// AnalyzeBatch handles POST /analyze/batch.
func (h *AnalysisHandler) AnalyzeBatch(defaults coreconfig.AnalysisOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeBatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeBadRequest(w, "invalid request body: "+err.Error())
			return
		}
		if len(req.URLs) == 0 {
			writeBadRequest(w, "urls is required and must not be empty")
			return
		}
		if len(req.URLs) > maxBatchURLs {
			writeBadRequest(w, "too many urls in one batch")
			return
		}

		result := h.service.AnalyzeBatch(r.Context(), req.URLs, req.Options.apply(defaults))
		writeJSON(w, http.StatusOK, result)
	}
}

type analyzeAPIPayloadRequest struct {
	EndpointURL string          `json:"endpoint_url"`
	Payload     json.RawMessage `json:"payload"`
	SchemaHint  string          `json:"schema_hint,omitempty"`
}

// AnalyzeAPIPayload handles POST /analyze/api.
func (h *AnalysisHandler) AnalyzeAPIPayload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeAPIPayloadRequest
		if err := decodeBody(r, &req); err != nil {
			writeBadRequest(w, "invalid request body: "+err.Error())
			return
		}
		if len(req.Payload) == 0 {
			writeBadRequest(w, "payload is required")
			return
		}

		record := h.service.AnalyzeAPIPayload(req.EndpointURL, req.Payload, req.SchemaHint)
		writeJSON(w, http.StatusOK, record)
	}
}
