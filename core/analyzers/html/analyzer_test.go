package html

import (
	"strings"
	"testing"
	"time"

	"pagelens-api/core/config"
	"pagelens-api/core/domain"
	"pagelens-api/core/interfaces"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(interfaces.Dependencies{})
}

func analyze(t *testing.T, body string) *domain.AnalysisRecord {
	t.Helper()
	record, err := newTestAnalyzer().Analyze([]byte(body), "https://example.com/article", config.DefaultOptions(), testNow)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	return record
}

func TestAnalyze_TitleAndDescription(t *testing.T) {
	body := `<html><head><title>Foo</title><meta name="description" content="Bar"></head><body><p>Hello world</p></body></html>`
	record := analyze(t, body)

	if record.Title != "Foo" {
		t.Errorf("Title = %q, want %q", record.Title, "Foo")
	}
	if record.Description != "Bar" {
		t.Errorf("Description = %q, want %q", record.Description, "Bar")
	}
	if record.ContentType != domain.ContentTypeHTML {
		t.Errorf("ContentType = %v, want html", record.ContentType)
	}
	if record.Status != domain.StatusSuccess {
		t.Errorf("Status = %v, want success", record.Status)
	}
}

func TestAnalyze_TitleFallsBackToOpenGraph(t *testing.T) {
	body := `<html><head><meta property="og:title" content="OG Title"></head><body></body></html>`
	record := analyze(t, body)

	if record.Title != "OG Title" {
		t.Errorf("Title = %q, want OG fallback", record.Title)
	}
}

func TestAnalyze_TitleFallsBackToH1(t *testing.T) {
	body := `<html><body><h1>  Heading   Title </h1></body></html>`
	record := analyze(t, body)

	if record.Title != "Heading Title" {
		t.Errorf("Title = %q, want collapsed h1 text", record.Title)
	}
}

func TestAnalyze_AuthorAndCanonical(t *testing.T) {
	body := `<html><head>
		<meta name="author" content="Jane Doe">
		<link rel="canonical" href="/article">
	</head><body></body></html>`
	record := analyze(t, body)

	if record.Author != "Jane Doe" {
		t.Errorf("Author = %q, want %q", record.Author, "Jane Doe")
	}
	if record.CanonicalURL != "https://example.com/article" {
		t.Errorf("CanonicalURL = %q, want resolved absolute URL", record.CanonicalURL)
	}
}

func TestAnalyze_PublishedDateFromMeta(t *testing.T) {
	body := `<html><head>
		<meta property="article:published_time" content="2025-05-01T09:30:00Z">
	</head><body></body></html>`
	record := analyze(t, body)

	if record.PublishedAt == nil {
		t.Fatal("PublishedAt is nil, want parsed meta date")
	}
	want := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	if !record.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", record.PublishedAt, want)
	}
}

func TestAnalyze_PublishedDateFromTimeElement(t *testing.T) {
	body := `<html><body><article><time datetime="2025-04-10">April 10</time><p>text</p></article></body></html>`
	record := analyze(t, body)

	if record.PublishedAt == nil {
		t.Fatal("PublishedAt is nil, want date from time element")
	}
	if record.PublishedAt.Year() != 2025 || record.PublishedAt.Month() != time.April {
		t.Errorf("PublishedAt = %v, want April 2025", record.PublishedAt)
	}
}

func TestAnalyze_MainContentFromArticle(t *testing.T) {
	sentence := "This paragraph carries the actual substance of the page and is long enough to matter. "
	body := `<html><body>
		<nav>Home About Contact Login Register Sitemap</nav>
		<article>` + strings.Repeat("<p>"+sentence+"</p>", 10) + `</article>
		<footer>Copyright 2025 Example Corp All Rights Reserved</footer>
	</body></html>`
	record := analyze(t, body)

	if !strings.Contains(record.MainContent, "actual substance") {
		t.Errorf("MainContent should contain article text, got %q", record.MainContent[:min(len(record.MainContent), 120)])
	}
	if strings.Contains(record.MainContent, "Sitemap") {
		t.Errorf("MainContent should not contain navigation text")
	}
	if record.Summary == "" {
		t.Error("Summary should not be empty for substantial content")
	}
	if len(record.Summary) > config.DefaultOptions().SummaryLength {
		t.Errorf("Summary length = %d exceeds limit %d", len(record.Summary), config.DefaultOptions().SummaryLength)
	}
}

func TestAnalyze_MalformedHTMLDegrades(t *testing.T) {
	body := `<html><head><title>Broken</head><body><p>Unclosed paragraph<div>nested wrong</body>`
	record := analyze(t, body)

	if record.Status != domain.StatusSuccess {
		t.Errorf("malformed HTML should still succeed, got status %v", record.Status)
	}
	if record.Title != "Broken" {
		t.Errorf("Title = %q, want %q", record.Title, "Broken")
	}
}

func TestAnalyze_EmptyBody(t *testing.T) {
	record := analyze(t, "")

	if record.Status != domain.StatusSuccess {
		t.Errorf("empty body should produce a sparse success record, got %v", record.Status)
	}
	if record.Title != "" || record.MainContent != "" {
		t.Error("empty body should produce empty fields")
	}
	if record.Scores.Relevance != 0 {
		t.Errorf("Relevance for empty body = %v, want 0", record.Scores.Relevance)
	}
}

func TestAnalyze_FeedCandidates(t *testing.T) {
	body := `<html><head>
		<link rel="alternate" type="application/rss+xml" href="/blog/feed.xml">
		<link rel="alternate" type="application/atom+xml" href="https://example.com/atom.xml">
		<link rel="alternate" type="text/html" href="/mobile">
	</head><body></body></html>`
	record := analyze(t, body)

	if len(record.DiscoveredFeeds) == 0 {
		t.Fatal("expected discovered feed candidates")
	}
	if record.DiscoveredFeeds[0] != "https://example.com/blog/feed.xml" {
		t.Errorf("first candidate = %q, want declared alternate resolved absolute", record.DiscoveredFeeds[0])
	}
	if len(record.DiscoveredFeeds) > maxFeedCandidates {
		t.Errorf("candidates = %d, want <= %d", len(record.DiscoveredFeeds), maxFeedCandidates)
	}
	for _, f := range record.DiscoveredFeeds {
		if f == "https://example.com/mobile" {
			t.Error("text/html alternate should not be a feed candidate")
		}
	}
}

func TestAnalyze_FeedCandidatesDeduped(t *testing.T) {
	// Declared alternate collides with a common path probe
	body := `<html><head>
		<link rel="alternate" type="application/rss+xml" href="https://EXAMPLE.com/feed">
	</head><body></body></html>`
	record := analyze(t, body)

	seen := make(map[string]int)
	for _, f := range record.DiscoveredFeeds {
		seen[strings.ToLower(f)]++
	}
	if seen["https://example.com/feed"] > 1 {
		t.Error("feed candidates should be deduplicated case-insensitively on host")
	}
}

func TestAnalyze_ExternalLinksAndImages(t *testing.T) {
	body := `<html><body>
		<a href="/internal">internal</a>
		<a href="https://other.example.org/page">external</a>
		<a href="https://other.example.org/page">duplicate</a>
		<a href="mailto:someone@example.com">mail</a>
		<img src="/images/photo.jpg">
		<img src="https://cdn.example.net/pic.png">
	</body></html>`

	opts := config.DefaultOptions()
	opts.ExtractLinks = true
	opts.ExtractImages = true
	record, err := newTestAnalyzer().Analyze([]byte(body), "https://example.com/article", opts, testNow)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(record.ExternalLinks) != 1 {
		t.Fatalf("ExternalLinks = %v, want exactly the one off-origin http link", record.ExternalLinks)
	}
	if record.ExternalLinks[0] != "https://other.example.org/page" {
		t.Errorf("ExternalLinks[0] = %q", record.ExternalLinks[0])
	}

	if len(record.Images) != 2 {
		t.Fatalf("Images = %v, want both img sources resolved", record.Images)
	}
	if record.Images[0] != "https://example.com/images/photo.jpg" {
		t.Errorf("Images[0] = %q, want relative src resolved against base", record.Images[0])
	}
}

func TestAnalyze_LinksSkippedByDefault(t *testing.T) {
	body := `<html><body><a href="https://other.example.org/">x</a><img src="/a.png"></body></html>`
	record := analyze(t, body)

	if record.ExternalLinks != nil {
		t.Error("ExternalLinks should be skipped unless requested")
	}
	if record.Images != nil {
		t.Error("Images should be skipped unless requested")
	}
}

func TestAnalyze_LanguageFromAttributeForShortText(t *testing.T) {
	body := `<html lang="en-US"><head><title>Hi</title></head><body><p>Short.</p></body></html>`
	record := analyze(t, body)

	if record.Language != "en" {
		t.Errorf("Language = %q, want %q from html lang attribute", record.Language, "en")
	}
}

func TestAnalyze_LanguageDetectedFromContent(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog near the riverbank every single morning. ", 10)
	body := `<html><body><article><p>` + text + `</p></article></body></html>`
	record := analyze(t, body)

	if record.Language != "en" {
		t.Errorf("Language = %q, want %q detected from content", record.Language, "en")
	}
}

func TestAnalyze_ScoresWithinRange(t *testing.T) {
	body := `<html><head><title>A reasonably long title here</title>
		<meta name="description" content="A description that is certainly long enough">
		<meta name="author" content="Jane Doe">
		<meta property="article:published_time" content="2025-06-01">
	</head><body><article>` +
		strings.Repeat("<p>This sentence carries enough words to count as meaningful content for scoring. </p>", 15) +
		`</article></body></html>`
	record := analyze(t, body)

	for name, score := range map[string]float64{
		"relevance": record.Scores.Relevance,
		"quality":   record.Scores.Quality,
		"freshness": record.Scores.Freshness,
	} {
		if score < 0 || score > 1 {
			t.Errorf("%s = %v, outside [0,1]", name, score)
		}
	}
	if record.Scores.Relevance < 0.8 {
		t.Errorf("Relevance for rich page = %v, want >= 0.8", record.Scores.Relevance)
	}
	if record.Scores.Freshness <= 0.5 {
		t.Errorf("Freshness for two-week-old content = %v, want > 0.5", record.Scores.Freshness)
	}
}

func TestAnalyze_OversizedBodyTruncated(t *testing.T) {
	opts := config.DefaultOptions()
	opts.MaxContentBytes = 500

	body := `<html><body><p>` + strings.Repeat("x", 10_000) + `</p></body></html>`
	record, err := newTestAnalyzer().Analyze([]byte(body), "https://example.com/big", opts, testNow)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if record.ContentLength != 500 {
		t.Errorf("ContentLength = %d, want truncated to 500", record.ContentLength)
	}
}
