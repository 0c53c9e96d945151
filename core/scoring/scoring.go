// ABOUTME: Pure scoring functions shared by every analyzer
// ABOUTME: Deterministic given inputs and the supplied clock, no ambient state

package scoring

import (
	"math"
	"strings"
	"time"
)

// Input carries the signals the scoring functions consume. Analyzers
// build one from whatever they extracted; absent signals stay zero.
type Input struct {
	Title       string
	Description string
	MainContent string

	HasAuthor        bool
	HasPublishedDate bool

	// BoilerplateRatio is extracted-text length over raw payload
	// length, in [0,1]. Higher means less boilerplate was stripped.
	BoilerplateRatio float64

	// LanguageConfidence is the statistical language detector's
	// confidence, in [0,1]. Zero when detection was skipped.
	LanguageConfidence float64

	// HasStructuredMetadata is true when the source carried machine
	// metadata (article meta tags, feed-level fields, mapped records).
	HasStructuredMetadata bool
}

// Params carries the explicit scoring parameters. Threading them per
// call keeps scoring reproducible under test.
type Params struct {
	FreshnessHalfLife time.Duration
	FreshnessHorizon  time.Duration
}

// DefaultParams returns the documented scoring defaults: a 30 day
// half-life and a 365 day horizon.
func DefaultParams() Params {
	return Params{
		FreshnessHalfLife: 30 * 24 * time.Hour,
		FreshnessHorizon:  365 * 24 * time.Hour,
	}
}

// neutralFreshness is assigned to undated content: absence of a date
// is not evidence of staleness.
const neutralFreshness = 0.5

// Relevance computes a content-richness proxy in [0,1].
//
// This is NOT query-aware relevance. The analysis layer has no query
// or topic input, so the score only measures how much usable content
// a resource carries; query-aware ranking is a downstream concern.
func Relevance(in Input) float64 {
	score := 0.0

	if len(in.Title) > 10 {
		score += 0.2
	}
	if len(in.Description) > 20 {
		score += 0.2
	}

	contentLen := len(in.MainContent)
	switch {
	case contentLen >= 500:
		score += 0.3
	case contentLen >= 200:
		score += 0.15
	}

	if meaningfulSentences(in.MainContent) >= 3 {
		score += 0.15
	}

	if in.HasStructuredMetadata {
		score += 0.15
	}

	return clamp(score)
}

// Quality computes a content-quality score in [0,1] from log-scaled
// content length, metadata presence, boilerplate ratio and language
// detection confidence.
func Quality(in Input) float64 {
	score := 0.0

	// Log scale gives diminishing returns: ~0.2 at 100 chars,
	// maxing out around 10k chars.
	if n := len(in.MainContent); n > 0 {
		score += 0.4 * math.Min(1.0, math.Log10(float64(n)+1)/4.0)
	}

	if in.HasAuthor {
		score += 0.15
	}
	if in.HasPublishedDate {
		score += 0.15
	}

	score += 0.15 * clamp(in.BoilerplateRatio)
	score += 0.15 * clamp(in.LanguageConfidence)

	return clamp(score)
}

// Freshness computes a decay score in [0,1] for content published at
// the given time, evaluated at now. The decay is exponential with the
// configured half-life, floors at 0 beyond the horizon, and undated
// content receives a fixed neutral value. Monotonically non-increasing
// as the publish-to-now gap grows.
func Freshness(published *time.Time, now time.Time, params Params) float64 {
	if published == nil || published.IsZero() {
		return neutralFreshness
	}

	age := now.Sub(*published)
	if age <= 0 {
		return 1.0
	}
	if params.FreshnessHorizon > 0 && age >= params.FreshnessHorizon {
		return 0.0
	}

	halfLife := params.FreshnessHalfLife
	if halfLife <= 0 {
		halfLife = DefaultParams().FreshnessHalfLife
	}

	return clamp(math.Pow(0.5, age.Hours()/halfLife.Hours()))
}

// meaningfulSentences counts sentences longer than 20 characters.
func meaningfulSentences(content string) int {
	if content == "" {
		return 0
	}
	count := 0
	for _, s := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(strings.TrimSpace(s)) > 20 {
			count++
		}
	}
	return count
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
