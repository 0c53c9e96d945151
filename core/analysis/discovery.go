// ABOUTME: Feed discovery crawls a page for syndication feeds
// ABOUTME: Breadth-first over same-host links with a call-scoped visited set

package analysis

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"pagelens-api/core/analyzers/html"
	"pagelens-api/core/domain"
)

const (
	// maxCrawlPages bounds how many pages one discovery call fetches.
	maxCrawlPages = 10

	// maxCandidates bounds the feed candidates carried into validation.
	maxCandidates = 25

	// maxLinksPerPage bounds the crawl frontier contribution of a page.
	maxLinksPerPage = 10

	// maxDiscoveryDepth caps the caller-requested crawl depth.
	maxDiscoveryDepth = 3
)

// DiscoverFeeds finds syndication feeds reachable from sourceURL.
// Depth 0 inspects only the source page; each extra level follows
// same-host links breadth-first. With validate set, every candidate
// is fetched and parsed; without it candidates are returned with
// their type guessed from the URL.
func (m *Manager) DiscoverFeeds(ctx context.Context, sourceURL string, depth int, validate bool) *domain.FeedDiscoveryResult {
	result := &domain.FeedDiscoveryResult{SourceURL: sourceURL}

	if err := validateURL(sourceURL); err != nil {
		result.ErrorMessage = err.Error()
		return result
	}
	if depth < 0 {
		depth = 0
	}
	if depth > maxDiscoveryDepth {
		depth = maxDiscoveryDepth
	}

	body, err := m.fetchPage(ctx, sourceURL)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}

	// The source URL may itself be a feed; no crawl needed then.
	if m.feedAnalyzer.Validate(body) {
		result.DiscoveryMethod = "direct"
		if descriptor, err := m.feedAnalyzer.Analyze(body, sourceURL, m.defaults, m.now()); err == nil {
			result.Feeds = []domain.FeedDescriptor{*descriptor}
		}
		result.TotalFeeds = len(result.Feeds)
		return result
	}

	result.DiscoveryMethod = "crawl"
	candidates := m.crawlForCandidates(ctx, sourceURL, body, depth)

	if validate {
		result.Feeds = m.validateCandidates(ctx, candidates)
	} else {
		for _, candidate := range candidates {
			result.Feeds = append(result.Feeds, domain.FeedDescriptor{
				URL:      candidate,
				FeedType: guessFeedType(candidate),
			})
		}
	}

	result.TotalFeeds = len(result.Feeds)
	return result
}

// crawlForCandidates walks same-host pages breadth-first collecting
// feed candidates. The visited set is scoped to this call.
func (m *Manager) crawlForCandidates(ctx context.Context, sourceURL string, sourceBody []byte, depth int) []string {
	type page struct {
		url  string
		body []byte
	}

	visited := map[string]bool{normalizeURL(sourceURL): true}
	seen := make(map[string]bool)
	var candidates []string

	collect := func(body []byte, pageURL string) {
		for _, candidate := range html.FeedCandidates(body, pageURL) {
			key := normalizeURL(candidate)
			if seen[key] || len(candidates) >= maxCandidates {
				continue
			}
			seen[key] = true
			candidates = append(candidates, candidate)
		}
	}

	frontier := []page{{url: sourceURL, body: sourceBody}}
	fetched := 1

	for level := 0; level <= depth && len(frontier) > 0; level++ {
		var next []page
		for _, p := range frontier {
			collect(p.body, p.url)

			if level == depth {
				continue
			}
			for _, link := range internalLinks(p.body, p.url) {
				key := normalizeURL(link)
				if visited[key] || fetched >= maxCrawlPages {
					continue
				}
				visited[key] = true

				body, err := m.fetchPage(ctx, link)
				fetched++
				if err != nil {
					m.logDebug("Skipping unreachable page during discovery", map[string]interface{}{
						"url":   link,
						"error": err.Error(),
					})
					continue
				}
				next = append(next, page{url: link, body: body})
			}
		}
		frontier = next
	}

	return candidates
}

// validateCandidates fetches and parses every candidate with bounded
// concurrency, keeping only real feeds. Candidate order is preserved.
func (m *Manager) validateCandidates(ctx context.Context, candidates []string) []domain.FeedDescriptor {
	descriptors := make([]*domain.FeedDescriptor, len(candidates))

	sem := make(chan struct{}, m.defaults.MaxConcurrent)
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, feedURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			body, err := m.fetchPage(ctx, feedURL)
			if err != nil {
				return
			}
			descriptor, err := m.feedAnalyzer.Analyze(body, feedURL, m.defaults, m.now())
			if err != nil || descriptor.Validate() != nil {
				return
			}
			descriptors[i] = descriptor
		}(i, candidate)
	}
	wg.Wait()

	var feeds []domain.FeedDescriptor
	for _, d := range descriptors {
		if d != nil {
			feeds = append(feeds, *d)
		}
	}
	return feeds
}

// fetchPage fetches one page with the default per-request timeout.
func (m *Manager) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, m.defaults.Timeout)
	defer cancel()

	body, _, err := m.fetch(ctx, pageURL, m.defaults.MaxContentBytes)
	return body, err
}

// internalLinks extracts same-host page links for the crawl frontier.
func internalLinks(body []byte, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return true
		}
		if !strings.EqualFold(abs.Host, base.Host) {
			return true
		}
		abs.Fragment = ""
		key := normalizeURL(abs.String())
		if !seen[key] {
			seen[key] = true
			links = append(links, abs.String())
		}
		return len(links) < maxLinksPerPage
	})
	return links
}

// normalizeURL lowercases the host and strips fragments so dedup
// treats host-case variants as one URL.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/")
}

// guessFeedType infers the syndication format from URL markers when
// validation is skipped.
func guessFeedType(feedURL string) domain.FeedType {
	lower := strings.ToLower(feedURL)
	switch {
	case strings.Contains(lower, "atom"):
		return domain.FeedTypeAtom
	case strings.HasSuffix(lower, ".json") || strings.Contains(lower, "jsonfeed"):
		return domain.FeedTypeJSON
	default:
		return domain.FeedTypeRSS
	}
}
