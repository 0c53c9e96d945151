// ABOUTME: Analysis options control optional extraction features and limits
// ABOUTME: Options are threaded explicitly through every call, never read from globals

package config

import "time"

// AnalysisOptions carries the recognized per-request options.
// Scoring parameters travel here explicitly so results stay
// reproducible under test.
type AnalysisOptions struct {
	// Timeout is the per-request deadline
	Timeout time.Duration

	// MaxContentBytes truncates larger payloads before parsing
	MaxContentBytes int

	// ExtractLinks enables external-link collection
	ExtractLinks bool

	// ExtractImages enables image URL collection
	ExtractImages bool

	// DiscoverFeeds enables feed-candidate discovery during HTML analysis
	DiscoverFeeds bool

	// CalculateScores enables the scoring pass
	CalculateScores bool

	// DetectLanguage enables statistical language detection
	DetectLanguage bool

	// MaxConcurrent is the batch worker pool width
	MaxConcurrent int

	// FreshnessHorizonDays floors the freshness score at 0 beyond this age
	FreshnessHorizonDays int

	// FreshnessHalfLifeDays controls the exponential freshness decay
	FreshnessHalfLifeDays int

	// FeedActivityWindowDays bounds what counts as an active feed
	FeedActivityWindowDays int

	// SummaryLength caps the generated summary, in characters
	SummaryLength int

	// MinContentLength gates main-content extraction results
	MinContentLength int

	// CacheTTL controls record caching when a cache is configured;
	// zero disables caching entirely
	CacheTTL time.Duration
}

// DefaultOptions returns the documented option defaults.
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Timeout:                30 * time.Second,
		MaxContentBytes:        1_000_000,
		ExtractLinks:           false,
		ExtractImages:          false,
		DiscoverFeeds:          true,
		CalculateScores:        true,
		DetectLanguage:         true,
		MaxConcurrent:          5,
		FreshnessHorizonDays:   365,
		FreshnessHalfLifeDays:  30,
		FeedActivityWindowDays: 90,
		SummaryLength:          500,
		MinContentLength:       100,
	}
}

// Normalize fills zero values with defaults so partially populated
// options behave predictably.
func (o AnalysisOptions) Normalize() AnalysisOptions {
	def := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.MaxContentBytes <= 0 {
		o.MaxContentBytes = def.MaxContentBytes
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = def.MaxConcurrent
	}
	if o.FreshnessHorizonDays <= 0 {
		o.FreshnessHorizonDays = def.FreshnessHorizonDays
	}
	if o.FreshnessHalfLifeDays <= 0 {
		o.FreshnessHalfLifeDays = def.FreshnessHalfLifeDays
	}
	if o.FeedActivityWindowDays <= 0 {
		o.FeedActivityWindowDays = def.FeedActivityWindowDays
	}
	if o.SummaryLength <= 0 {
		o.SummaryLength = def.SummaryLength
	}
	if o.MinContentLength <= 0 {
		o.MinContentLength = def.MinContentLength
	}
	return o
}
