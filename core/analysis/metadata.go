// ABOUTME: Quick page-metadata extraction for link previews
// ABOUTME: Open Graph first, standard meta tags as fallback

package analysis

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pagelens-api/core/domain"
	coreerrors "pagelens-api/core/errors"
)

// GetPageMetadata fetches a page and extracts its preview metadata.
// Unlike AnalyzeOne this is a thin pass: no content extraction, no
// scoring, and failures surface as errors.
func (m *Manager) GetPageMetadata(ctx context.Context, pageURL string) (*domain.PageMetadata, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, err
	}

	body, err := m.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.ParseError{Format: "html", Message: err.Error()}
	}

	meta := &domain.PageMetadata{URL: pageURL}

	meta.Title = firstMetaContent(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`)
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	meta.Description = firstMetaContent(doc,
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	)

	if image := firstMetaContent(doc, `meta[property="og:image"]`, `meta[name="twitter:image"]`); image != "" {
		meta.ImageURL = resolveAgainst(pageURL, image)
	}

	meta.SiteName = firstMetaContent(doc, `meta[property="og:site_name"]`)
	meta.Favicon = extractFavicon(doc, pageURL)

	return meta, nil
}

func firstMetaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if c, ok := doc.Find(sel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func extractFavicon(doc *goquery.Document, pageURL string) string {
	for _, sel := range []string{`link[rel="icon"]`, `link[rel="shortcut icon"]`, `link[rel="apple-touch-icon"]`} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok {
			if resolved := resolveAgainst(pageURL, href); resolved != "" {
				return resolved
			}
		}
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		return u.Scheme + "://" + u.Host + "/favicon.ico"
	}
	return ""
}

func resolveAgainst(baseURL, href string) string {
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
	return abs.String()
}
