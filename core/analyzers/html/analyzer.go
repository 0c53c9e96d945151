// ABOUTME: HTML analyzer extracts content, metadata and linked resources from pages
// ABOUTME: Readability-first main content extraction with a text-density fallback

package html

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"pagelens-api/core/config"
	"pagelens-api/core/domain"
	coreerrors "pagelens-api/core/errors"
	"pagelens-api/core/interfaces"
	"pagelens-api/core/scoring"
	"pagelens-api/pkg/utils/htmltext"
	"pagelens-api/pkg/utils/timeparse"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 500
	maxAuthorLength      = 100
	maxFeedCandidates    = 10
	maxImages            = 20
	maxExternalLinks     = 50
	languageSampleChars  = 1000
	minLanguageChars     = 50
)

// commonFeedPaths are probed as candidates in addition to declared
// alternate links. Validation belongs to the feed analyzer.
var commonFeedPaths = []string{
	"/feed", "/rss", "/rss.xml", "/atom.xml",
	"/index.xml", "/feed.xml", "/feeds/all.atom.xml",
}

var datePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

// Analyzer extracts a partial AnalysisRecord from HTML bytes.
type Analyzer struct {
	deps interfaces.Dependencies
}

// NewAnalyzer creates a new HTML analyzer.
func NewAnalyzer(deps interfaces.Dependencies) *Analyzer {
	return &Analyzer{deps: deps}
}

// Analyze extracts content and metadata from an HTML document.
// Malformed markup degrades gracefully; only a total parse failure
// returns an error, which the manager converts to an error record.
func (a *Analyzer) Analyze(body []byte, baseURL string, opts config.AnalysisOptions, now time.Time) (*domain.AnalysisRecord, error) {
	opts = opts.Normalize()

	if len(body) > opts.MaxContentBytes {
		body = body[:opts.MaxContentBytes]
	}

	decoded, err := decode(body)
	if err != nil {
		return nil, &coreerrors.ParseError{Format: "html", Message: err.Error()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, &coreerrors.ParseError{Format: "html", Message: err.Error()}
	}

	record := &domain.AnalysisRecord{
		URL:           baseURL,
		ContentType:   domain.ContentTypeHTML,
		Status:        domain.StatusSuccess,
		ContentLength: len(body),
		AnalyzedAt:    now,
	}

	record.Title = extractTitle(doc)
	record.Description = extractDescription(doc)
	record.Author = extractAuthor(doc)
	record.CanonicalURL = extractCanonical(doc, baseURL)

	published, structured := extractPublishedDate(doc)
	record.PublishedAt = published
	record.LastModifiedAt = extractModifiedDate(doc)

	record.MainContent = a.extractMainContent(decoded, doc, baseURL, opts)
	record.Summary = summarize(record.MainContent, opts.SummaryLength)

	var langConfidence float64
	if opts.DetectLanguage {
		record.Language, langConfidence = detectLanguage(record.MainContent, record.Title, doc)
	}

	if opts.DiscoverFeeds {
		record.DiscoveredFeeds = discoverFeedCandidates(doc, baseURL)
	}
	if opts.ExtractImages {
		record.Images = extractImages(doc, baseURL)
	}
	if opts.ExtractLinks {
		record.ExternalLinks = extractExternalLinks(doc, baseURL)
	}

	if opts.CalculateScores {
		boilerplate := 0.0
		if len(decoded) > 0 {
			boilerplate = float64(len(record.MainContent)) / float64(len(decoded))
		}
		in := scoring.Input{
			Title:                 record.Title,
			Description:           record.Description,
			MainContent:           record.MainContent,
			HasAuthor:             record.Author != "",
			HasPublishedDate:      record.PublishedAt != nil,
			BoilerplateRatio:      boilerplate,
			LanguageConfidence:    langConfidence,
			HasStructuredMetadata: structured,
		}
		record.Scores = domain.Scores{
			Relevance: scoring.Relevance(in),
			Quality:   scoring.Quality(in),
			Freshness: scoring.Freshness(record.PublishedAt, now, scoringParams(opts)),
		}
	}

	return record, nil
}

func scoringParams(opts config.AnalysisOptions) scoring.Params {
	return scoring.Params{
		FreshnessHalfLife: time.Duration(opts.FreshnessHalfLifeDays) * 24 * time.Hour,
		FreshnessHorizon:  time.Duration(opts.FreshnessHorizonDays) * 24 * time.Hour,
	}
}

// decode converts the payload to UTF-8, honoring meta charset
// declarations. Undetectable charsets fall back to the raw bytes.
func decode(body []byte) ([]byte, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), "")
	if err != nil {
		return body, nil
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("charset decode: %w", err)
	}
	return buf.Bytes(), nil
}

func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return htmltext.Truncate(htmltext.Collapse(t), maxTitleLength)
	}
	for _, sel := range []string{`meta[property="og:title"]`, `meta[name="twitter:title"]`} {
		if c, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(c) != "" {
			return htmltext.Truncate(strings.TrimSpace(c), maxTitleLength)
		}
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return htmltext.Truncate(htmltext.Collapse(h1), maxTitleLength)
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	selectors := []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
		`meta[name="twitter:description"]`,
	}
	for _, sel := range selectors {
		if c, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(c) != "" {
			return htmltext.Truncate(strings.TrimSpace(c), maxDescriptionLength)
		}
	}
	return ""
}

func extractAuthor(doc *goquery.Document) string {
	metaSelectors := []string{
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="twitter:creator"]`,
	}
	for _, sel := range metaSelectors {
		if c, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(c) != "" {
			return htmltext.Truncate(strings.TrimSpace(c), maxAuthorLength)
		}
	}
	for _, sel := range []string{`[rel="author"]`, ".author", ".byline"} {
		if t := htmltext.Collapse(doc.Find(sel).First().Text()); t != "" {
			return htmltext.Truncate(t, maxAuthorLength)
		}
	}
	return ""
}

func extractCanonical(doc *goquery.Document, baseURL string) string {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	return absoluteURL(baseURL, href)
}

// extractPublishedDate returns the published date and whether it came
// from structured metadata. Priority: structured meta tags, then
// visible time markup, then a body-text heuristic.
func extractPublishedDate(doc *goquery.Document) (*time.Time, bool) {
	metaSelectors := []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="publishdate"]`,
		`meta[itemprop="datePublished"]`,
	}
	for _, sel := range metaSelectors {
		if c, ok := doc.Find(sel).First().Attr("content"); ok {
			if t := parseDate(c); t != nil {
				return t, true
			}
		}
	}

	var fromTime *time.Time
	doc.Find("time[datetime]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if dt, ok := s.Attr("datetime"); ok {
			if t := parseDate(dt); t != nil {
				fromTime = t
				return false
			}
		}
		return true
	})
	if fromTime != nil {
		return fromTime, false
	}

	if m := datePattern.FindString(doc.Find("body").Text()); m != "" {
		return parseDate(m), false
	}

	return nil, false
}

func extractModifiedDate(doc *goquery.Document) *time.Time {
	selectors := []string{
		`meta[property="article:modified_time"]`,
		`meta[name="last-modified"]`,
	}
	for _, sel := range selectors {
		if c, ok := doc.Find(sel).First().Attr("content"); ok {
			if t := parseDate(c); t != nil {
				return t
			}
		}
	}
	return nil
}

// extractMainContent runs readability first and falls back to a
// text-density heuristic when it fails or yields too little text.
func (a *Analyzer) extractMainContent(raw []byte, doc *goquery.Document, baseURL string, opts config.AnalysisOptions) string {
	pageURL, _ := url.Parse(baseURL)

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err == nil {
		text := htmltext.Collapse(article.TextContent)
		if len(text) >= opts.MinContentLength {
			return text
		}
	} else if a.deps.Logger != nil {
		a.deps.Logger.Debug("Readability extraction failed, using density fallback", map[string]interface{}{
			"url":   baseURL,
			"error": err.Error(),
		})
	}

	if text := densestBlockText(doc); len(text) >= opts.MinContentLength {
		return text
	}
	return ""
}

// densestBlockText scores block-level containers by text density
// (text length over descendant element count), skipping boilerplate
// regions and preferring article/main containers.
func densestBlockText(doc *goquery.Document) string {
	working := doc.Clone()
	working.Find("script, style, noscript, nav, footer, aside, header, form").Remove()

	// Semantic containers win outright when they carry real text.
	for _, sel := range []string{"article", "main", `[role="main"]`} {
		if text := htmltext.Collapse(working.Find(sel).First().Text()); len(text) > 0 {
			return text
		}
	}

	var best string
	var bestScore float64
	working.Find("div, section, td").Each(func(_ int, s *goquery.Selection) {
		text := htmltext.Collapse(s.Text())
		if len(text) == 0 {
			return
		}
		descendants := s.Find("*").Length()
		score := float64(len(text)) / float64(1+descendants)
		if score > bestScore {
			bestScore = score
			best = text
		}
	})
	if best != "" {
		return best
	}

	return htmltext.Collapse(working.Find("body").Text())
}

// summarize takes leading sentences of the content up to maxLen.
func summarize(content string, maxLen int) string {
	if content == "" {
		return ""
	}
	if len(content) <= maxLen {
		return content
	}

	var b strings.Builder
	for _, sentence := range strings.SplitAfter(content, ". ") {
		if b.Len()+len(sentence) > maxLen {
			break
		}
		b.WriteString(sentence)
	}
	if b.Len() == 0 {
		return htmltext.Truncate(content, maxLen)
	}
	return strings.TrimSpace(b.String())
}

// detectLanguage runs statistical detection over the main content.
// Text too short for reliable detection falls back to the declared
// lang attribute; the returned confidence is 1.0 for declared values.
func detectLanguage(mainContent, title string, doc *goquery.Document) (string, float64) {
	sample := mainContent
	if sample == "" {
		sample = title
	}
	if len(sample) > languageSampleChars {
		sample = htmltext.Truncate(sample, languageSampleChars)
	}

	if len(sample) >= minLanguageChars {
		info := whatlanggo.Detect(sample)
		if code := info.Lang.Iso6391(); code != "" {
			return code, info.Confidence
		}
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		lang = strings.TrimSpace(lang)
		if lang != "" {
			// Normalize "en-US" style declarations to the bare code
			if i := strings.IndexAny(lang, "-_"); i > 0 {
				lang = lang[:i]
			}
			return strings.ToLower(lang), 1.0
		}
	}

	return "", 0
}

// FeedCandidates parses HTML bytes and returns unvalidated feed
// candidate URLs. Used by feed discovery, which works on raw pages
// without running a full analysis.
func FeedCandidates(body []byte, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return discoverFeedCandidates(doc, baseURL)
}

// discoverFeedCandidates collects declared alternate links plus the
// common feed paths. These are unvalidated candidates.
func discoverFeedCandidates(doc *goquery.Document, baseURL string) []string {
	seen := make(map[string]bool)
	var feeds []string

	add := func(raw string) {
		abs := absoluteURL(baseURL, raw)
		if abs == "" {
			return
		}
		key := normalizeFeedURL(abs)
		if seen[key] || len(feeds) >= maxFeedCandidates {
			return
		}
		seen[key] = true
		feeds = append(feeds, abs)
	}

	doc.Find(`link[rel="alternate"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		typeAttr := strings.ToLower(s.AttrOr("type", ""))
		for _, marker := range []string{"rss", "atom", "feed", "xml"} {
			if strings.Contains(typeAttr, marker) {
				add(href)
				return
			}
		}
	})

	if base, err := url.Parse(baseURL); err == nil && base.Host != "" {
		root := base.Scheme + "://" + base.Host
		for _, path := range commonFeedPaths {
			add(root + path)
		}
	}

	return feeds
}

func extractImages(doc *goquery.Document, baseURL string) []string {
	seen := make(map[string]bool)
	var images []string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		abs := absoluteURL(baseURL, src)
		if abs != "" && !seen[abs] {
			seen[abs] = true
			images = append(images, abs)
		}
		return len(images) < maxImages
	})
	return images
}

// extractExternalLinks keeps only links pointing off-origin; same-site
// navigation is boilerplate for analysis purposes.
func extractExternalLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	baseHost := strings.ToLower(base.Host)

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		abs := absoluteURL(baseURL, href)
		if abs == "" {
			return true
		}
		u, err := url.Parse(abs)
		if err != nil || u.Host == "" || strings.EqualFold(u.Host, baseHost) {
			return true
		}
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
		return len(links) < maxExternalLinks
	})
	return links
}

// absoluteURL resolves href against base and rejects non-http schemes.
func absoluteURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}

// normalizeFeedURL lowercases the host for dedup comparisons; paths
// stay case-sensitive.
func normalizeFeedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String()
}

func parseDate(s string) *time.Time {
	return timeparse.ParsePtr(strings.TrimSpace(s))
}
