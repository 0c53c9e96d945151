// ABOUTME: Feed analyzer parses RSS, Atom and JSON feeds into descriptors
// ABOUTME: Wraps gofeed and derives activity and freshness from entry dates

package feeds

import (
	"bytes"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"pagelens-api/core/config"
	"pagelens-api/core/domain"
	coreerrors "pagelens-api/core/errors"
	"pagelens-api/core/interfaces"
	"pagelens-api/core/scoring"
	"pagelens-api/pkg/utils/htmltext"
)

// maxEntries caps how many entries contribute to analysis. Feeds
// larger than this are truncated, not rejected.
const maxEntries = 100

// minActiveDatedEntries is the entry count needed for the median-gap
// activity heuristic when no entry falls inside the window.
const minActiveDatedEntries = 3

// Analyzer parses syndication feeds and summarizes their state.
type Analyzer struct {
	parser *gofeed.Parser
	deps   interfaces.Dependencies
}

// NewAnalyzer creates a new feed analyzer.
func NewAnalyzer(deps interfaces.Dependencies) *Analyzer {
	return &Analyzer{
		parser: gofeed.NewParser(),
		deps:   deps,
	}
}

// Analyze parses feed bytes into a FeedDescriptor. RSS, Atom and JSON
// Feed formats are detected automatically.
func (a *Analyzer) Analyze(body []byte, feedURL string, opts config.AnalysisOptions, now time.Time) (*domain.FeedDescriptor, error) {
	opts = opts.Normalize()

	feed, err := a.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.ParseError{Format: "feed", Message: err.Error()}
	}

	entries := feed.Items
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	descriptor := &domain.FeedDescriptor{
		URL:         feedURL,
		Title:       htmltext.Collapse(feed.Title),
		Description: htmltext.Collapse(htmltext.Strip(feed.Description)),
		FeedType:    feedType(feed),
		EntryCount:  len(entries),
		Language:    feed.Language,
	}

	descriptor.LastUpdated = lastUpdated(feed, entries)
	descriptor.IsActive = isActive(entries, now, time.Duration(opts.FeedActivityWindowDays)*24*time.Hour)

	return descriptor, nil
}

// AnalyzeAsRecord parses a feed and shapes the result as an
// AnalysisRecord so feeds flow through the same pipeline as pages.
func (a *Analyzer) AnalyzeAsRecord(body []byte, feedURL string, opts config.AnalysisOptions, now time.Time) (*domain.AnalysisRecord, error) {
	opts = opts.Normalize()

	descriptor, err := a.Analyze(body, feedURL, opts, now)
	if err != nil {
		return nil, err
	}

	feed, err := a.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.ParseError{Format: "feed", Message: err.Error()}
	}

	record := &domain.AnalysisRecord{
		URL:           feedURL,
		ContentType:   domain.ContentTypeFeed,
		Status:        domain.StatusSuccess,
		Title:         descriptor.Title,
		Description:   descriptor.Description,
		Language:      descriptor.Language,
		PublishedAt:   descriptor.LastUpdated,
		ContentLength: len(body),
		AnalyzedAt:    now,
	}

	record.MainContent = entryDigest(feed.Items, maxEntries)
	record.Summary = htmltext.Truncate(record.MainContent, opts.SummaryLength)
	if author := feedAuthor(feed); author != "" {
		record.Author = author
	}

	if opts.CalculateScores {
		in := scoring.Input{
			Title:                 record.Title,
			Description:           record.Description,
			MainContent:           record.MainContent,
			HasAuthor:             record.Author != "",
			HasPublishedDate:      record.PublishedAt != nil,
			HasStructuredMetadata: true,
		}
		record.Scores = domain.Scores{
			Relevance: scoring.Relevance(in),
			Quality:   scoring.Quality(in),
			Freshness: scoring.Freshness(record.PublishedAt, now, scoring.Params{
				FreshnessHalfLife: time.Duration(opts.FreshnessHalfLifeDays) * 24 * time.Hour,
				FreshnessHorizon:  time.Duration(opts.FreshnessHorizonDays) * 24 * time.Hour,
			}),
		}
	}

	return record, nil
}

// Validate reports whether the bytes parse as a feed with at least a
// title or one entry. Used by discovery to confirm candidates.
func (a *Analyzer) Validate(body []byte) bool {
	feed, err := a.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return false
	}
	return feed.Title != "" || len(feed.Items) > 0
}

func feedType(feed *gofeed.Feed) domain.FeedType {
	switch feed.FeedType {
	case "atom":
		return domain.FeedTypeAtom
	case "json":
		return domain.FeedTypeJSON
	default:
		return domain.FeedTypeRSS
	}
}

// lastUpdated is the feed-level updated date, falling back to the
// newest entry date.
func lastUpdated(feed *gofeed.Feed, entries []*gofeed.Item) *time.Time {
	if feed.UpdatedParsed != nil {
		return feed.UpdatedParsed
	}
	if feed.PublishedParsed != nil {
		return feed.PublishedParsed
	}

	var newest *time.Time
	for _, entry := range entries {
		if d := entryDate(entry); d != nil {
			if newest == nil || d.After(*newest) {
				newest = d
			}
		}
	}
	return newest
}

// isActive is true when an entry falls inside the activity window, or
// when enough dated entries exist and their median publish gap fits
// inside the window. The gap heuristic keeps slow but steady feeds
// from flapping between active and inactive at the window edge.
func isActive(entries []*gofeed.Item, now time.Time, window time.Duration) bool {
	var dates []time.Time
	for _, entry := range entries {
		if d := entryDate(entry); d != nil {
			dates = append(dates, *d)
		}
	}
	if len(dates) == 0 {
		return false
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	if now.Sub(dates[0]) <= window {
		return true
	}

	if len(dates) < minActiveDatedEntries {
		return false
	}
	gaps := make([]time.Duration, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i-1].Sub(dates[i]))
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps[len(gaps)/2] <= window
}

func entryDate(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

// entryDigest concatenates entry titles and stripped descriptions into
// a text body the scoring functions can evaluate.
func entryDigest(entries []*gofeed.Item, limit int) string {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	var b bytes.Buffer
	for _, entry := range entries {
		if t := htmltext.Collapse(entry.Title); t != "" {
			b.WriteString(t)
			b.WriteString(". ")
		}
		if d := htmltext.Collapse(htmltext.Strip(entry.Description)); d != "" {
			b.WriteString(d)
			b.WriteString(" ")
		}
	}
	return htmltext.Collapse(b.String())
}

func feedAuthor(feed *gofeed.Feed) string {
	if len(feed.Authors) > 0 && feed.Authors[0] != nil {
		return feed.Authors[0].Name
	}
	if feed.Author != nil {
		return feed.Author.Name
	}
	return ""
}
