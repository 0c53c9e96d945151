// ABOUTME: Feed domain models describe discovered and validated syndication feeds
// ABOUTME: FeedDescriptors live only for the duration of a discovery call

package domain

import (
	"errors"
	"net/url"
	"time"
)

// FeedType identifies the syndication format of a feed.
type FeedType string

const (
	FeedTypeRSS  FeedType = "rss"
	FeedTypeAtom FeedType = "atom"
	FeedTypeJSON FeedType = "json"
)

// FeedDescriptor describes a single validated feed.
type FeedDescriptor struct {
	// URL is the feed's own URL
	URL string `json:"url"`

	// Title is the feed title, if present
	Title string `json:"title,omitempty"`

	// Description is the feed description or subtitle
	Description string `json:"description,omitempty"`

	// FeedType is the detected syndication format
	FeedType FeedType `json:"feed_type"`

	// LastUpdated is the feed-level update timestamp
	LastUpdated *time.Time `json:"last_updated,omitempty"`

	// EntryCount is the number of entries, capped to bound memory
	EntryCount int `json:"entry_count"`

	// IsActive reports whether the feed published within the
	// activity window or updates on a regular cadence
	IsActive bool `json:"is_active"`

	// Language is the declared or detected feed language
	Language string `json:"language,omitempty"`
}

// Validate checks the descriptor's required fields.
func (d *FeedDescriptor) Validate() error {
	if d.URL == "" {
		return errors.New("feed URL cannot be empty")
	}
	if _, err := url.Parse(d.URL); err != nil {
		return errors.New("feed URL is not valid format")
	}
	switch d.FeedType {
	case FeedTypeRSS, FeedTypeAtom, FeedTypeJSON:
	default:
		return errors.New("feed type must be rss, atom or json")
	}
	return nil
}

// FeedDiscoveryResult is the outcome of crawling a page for feeds.
// Feeds are deduped with host/case-normalized URLs.
type FeedDiscoveryResult struct {
	// SourceURL is the page the discovery started from
	SourceURL string `json:"source_url"`

	// Feeds contains the discovered (and optionally validated) feeds
	Feeds []FeedDescriptor `json:"feeds"`

	// DiscoveryMethod records how the feeds were found
	// ("direct" when the source URL itself is a feed, "crawl" otherwise)
	DiscoveryMethod string `json:"discovery_method"`

	// TotalFeeds equals len(Feeds)
	TotalFeeds int `json:"total_feeds"`

	// ErrorMessage is set when discovery failed outright
	ErrorMessage string `json:"error_message,omitempty"`
}
