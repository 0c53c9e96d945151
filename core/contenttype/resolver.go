// ABOUTME: Pure content-type classification separating detection from fetching
// ABOUTME: Resolution is deterministic given a URL, an optional hint and sniffed bytes

package contenttype

import (
	"bytes"
	"net/url"
	"strings"

	"pagelens-api/core/domain"
)

// sniffLimit bounds how much of the payload resolution inspects.
const sniffLimit = 1024

// Resolve classifies a resource as html, feed, api or unknown.
// Precedence: a valid explicit hint wins; then URL markers; then a
// payload sniff. Resolution performs no I/O and never fails: inputs
// too ambiguous to classify resolve to unknown.
func Resolve(rawURL, hint string, sniff []byte) domain.ContentType {
	if ct, ok := parseHint(hint); ok {
		return ct
	}

	if ct, ok := resolveFromURL(rawURL); ok {
		return ct
	}

	if len(sniff) > 0 {
		return resolveFromPayload(sniff)
	}

	if strings.TrimSpace(rawURL) == "" {
		return domain.ContentTypeUnknown
	}

	// A fetchable URL with no markers defaults to html; callers
	// re-resolve with sniffed bytes once the body is available.
	return domain.ContentTypeHTML
}

// parseHint maps an explicit caller hint onto a content type.
// Unrecognized hints are ignored rather than treated as errors.
func parseHint(hint string) (domain.ContentType, bool) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "html":
		return domain.ContentTypeHTML, true
	case "feed", "rss", "atom":
		return domain.ContentTypeFeed, true
	case "api", "json":
		return domain.ContentTypeAPI, true
	}
	return domain.ContentTypeUnknown, false
}

func resolveFromURL(rawURL string) (domain.ContentType, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Path == "" && u.RawQuery == "" {
		return domain.ContentTypeUnknown, false
	}

	path := strings.ToLower(u.Path)
	query := strings.ToLower(u.RawQuery)

	feedMarkers := []string{"/feed", "/rss", "/atom", ".rss", ".atom", "feed.xml", "index.xml"}
	for _, marker := range feedMarkers {
		if strings.Contains(path, marker) {
			return domain.ContentTypeFeed, true
		}
	}
	if strings.Contains(query, "feed=rss") || strings.Contains(query, "feed=atom") {
		return domain.ContentTypeFeed, true
	}

	if strings.Contains(path, "/api/") || strings.HasSuffix(path, ".json") ||
		strings.Contains(query, "format=json") {
		return domain.ContentTypeAPI, true
	}

	return domain.ContentTypeUnknown, false
}

func resolveFromPayload(sniff []byte) domain.ContentType {
	if len(sniff) > sniffLimit {
		sniff = sniff[:sniffLimit]
	}
	trimmed := bytes.TrimLeft(sniff, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) == 0 {
		return domain.ContentTypeUnknown
	}

	switch trimmed[0] {
	case '{', '[':
		return domain.ContentTypeAPI
	case '<':
		lower := bytes.ToLower(trimmed)
		if bytes.Contains(lower, []byte("<rss")) || bytes.Contains(lower, []byte("<feed")) ||
			bytes.Contains(lower, []byte("<rdf")) {
			return domain.ContentTypeFeed
		}
		return domain.ContentTypeHTML
	}

	return domain.ContentTypeHTML
}
