// ABOUTME: Analysis domain models represent the result of analyzing a web resource
// ABOUTME: Defines content types, terminal statuses and the normalized analysis record

package domain

import "time"

// ContentType classifies a fetched resource for analyzer dispatch.
// The supported set is closed; there is no plugin mechanism.
type ContentType string

const (
	ContentTypeHTML    ContentType = "html"
	ContentTypeFeed    ContentType = "feed"
	ContentTypeAPI     ContentType = "api"
	ContentTypeUnknown ContentType = "unknown"
)

// AnalysisStatus is the terminal status of a single analysis.
type AnalysisStatus string

const (
	StatusSuccess AnalysisStatus = "success"
	StatusError   AnalysisStatus = "error"
	StatusTimeout AnalysisStatus = "timeout"
	StatusBlocked AnalysisStatus = "blocked"
)

// Scores holds the computed scoring triple. All values are in [0,1].
type Scores struct {
	// Relevance is a content-richness proxy. It is NOT query-aware:
	// this layer has no query signal, so true relevance is deferred
	// to downstream consumers.
	Relevance float64 `json:"relevance"`

	// Quality reflects content length, metadata presence and
	// boilerplate ratio.
	Quality float64 `json:"quality"`

	// Freshness decays from publish time toward 0 at the horizon.
	Freshness float64 `json:"freshness"`
}

// AnalysisRecord is the normalized result of analyzing one URL.
// A record is immutable once returned by the manager.
type AnalysisRecord struct {
	// URL is the analyzed resource URL
	URL string `json:"url"`

	// ContentType is the resolved content type
	ContentType ContentType `json:"content_type"`

	// Status is the terminal analysis status
	Status AnalysisStatus `json:"status"`

	// Extracted content
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	MainContent string `json:"main_content,omitempty"`
	Summary     string `json:"summary,omitempty"`

	// Metadata
	Language       string     `json:"language,omitempty"`
	Author         string     `json:"author,omitempty"`
	CanonicalURL   string     `json:"canonical_url,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`

	// Scores holds the computed scoring triple
	Scores Scores `json:"scores"`

	// Discovered resources. Feed URLs are absolute and deduped;
	// these are candidates, not validated feeds.
	DiscoveredFeeds []string `json:"discovered_feeds,omitempty"`
	Images          []string `json:"images,omitempty"`
	ExternalLinks   []string `json:"external_links,omitempty"`

	// Timing, always >= 0
	ResponseTimeMs   int64 `json:"response_time_ms"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`

	// ContentLength is the byte length of the fetched body
	ContentLength int `json:"content_length"`

	// ErrorMessage is set for error/timeout/blocked records
	ErrorMessage string `json:"error_message,omitempty"`

	// AnalyzedAt is when the analysis completed
	AnalyzedAt time.Time `json:"analyzed_at"`
}
