// ABOUTME: Analysis manager orchestrates fetch, type resolution and dispatch
// ABOUTME: Every input produces exactly one record, failures included

package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"pagelens-api/core/analyzers/apidata"
	"pagelens-api/core/analyzers/feeds"
	"pagelens-api/core/analyzers/html"
	"pagelens-api/core/config"
	"pagelens-api/core/contenttype"
	"pagelens-api/core/domain"
	coreerrors "pagelens-api/core/errors"
	"pagelens-api/core/interfaces"
)

// cacheKeyPrefix namespaces analysis records in the shared cache.
const cacheKeyPrefix = "pagelens:record:"

// Manager coordinates the full analysis pipeline. It owns no
// transport or storage; those arrive through Dependencies.
type Manager struct {
	deps     interfaces.Dependencies
	defaults config.AnalysisOptions

	htmlAnalyzer *html.Analyzer
	feedAnalyzer *feeds.Analyzer
	apiAnalyzer  *apidata.Analyzer

	// now is swappable for deterministic tests
	now func() time.Time
}

// NewManager creates a Manager with the given collaborators and
// default options.
func NewManager(deps interfaces.Dependencies, defaults config.AnalysisOptions) *Manager {
	return &Manager{
		deps:         deps,
		defaults:     defaults.Normalize(),
		htmlAnalyzer: html.NewAnalyzer(deps),
		feedAnalyzer: feeds.NewAnalyzer(deps),
		apiAnalyzer:  apidata.NewAnalyzer(deps),
		now:          time.Now,
	}
}

// AnalyzeOne fetches and analyzes a single URL. It always returns
// exactly one record; fetch, timeout and parse failures are folded
// into the record's status rather than surfaced as errors.
func (m *Manager) AnalyzeOne(ctx context.Context, rawURL, hint string, opts config.AnalysisOptions) *domain.AnalysisRecord {
	opts = m.merge(opts)
	start := m.now()

	if err := validateURL(rawURL); err != nil {
		return m.errorRecord(rawURL, domain.ContentTypeUnknown, domain.StatusError, err.Error(), start)
	}

	if cached := m.cachedRecord(ctx, rawURL, opts); cached != nil {
		return cached
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	body, responseMs, err := m.fetch(ctx, rawURL, opts.MaxContentBytes)
	if err != nil {
		record := m.errorRecord(rawURL, contenttype.Resolve(rawURL, hint, nil), statusForError(err), err.Error(), start)
		record.ResponseTimeMs = responseMs
		return record
	}

	resolved := contenttype.Resolve(rawURL, hint, body)
	record := m.dispatch(body, rawURL, resolved, opts, start)
	record.ResponseTimeMs = responseMs
	record.ProcessingTimeMs = m.now().Sub(start).Milliseconds() - responseMs
	if record.ProcessingTimeMs < 0 {
		record.ProcessingTimeMs = 0
	}

	m.storeRecord(ctx, rawURL, record, opts)
	return record
}

// AnalyzeAPIPayload analyzes a caller-supplied payload without
// fetching. Parse failures are reported on the record itself.
func (m *Manager) AnalyzeAPIPayload(endpointURL string, payload []byte, schemaHint string) *domain.ApiAnalysisRecord {
	record, err := m.apiAnalyzer.Analyze(payload, endpointURL, schemaHint)
	if err != nil {
		return &domain.ApiAnalysisRecord{
			EndpointURL:  endpointURL,
			ErrorMessage: err.Error(),
		}
	}
	return record
}

// dispatch routes the payload to the analyzer for its resolved type.
// Analyzer failures degrade to an error record, never an abort.
func (m *Manager) dispatch(body []byte, rawURL string, resolved domain.ContentType, opts config.AnalysisOptions, start time.Time) *domain.AnalysisRecord {
	var record *domain.AnalysisRecord
	var err error

	switch resolved {
	case domain.ContentTypeFeed:
		record, err = m.feedAnalyzer.AnalyzeAsRecord(body, rawURL, opts, m.now())
	case domain.ContentTypeAPI:
		record, err = m.apiAnalyzer.AnalyzeAsRecord(body, rawURL, opts, m.now())
	default:
		record, err = m.htmlAnalyzer.Analyze(body, rawURL, opts, m.now())
	}

	if err != nil {
		m.logDebug("Analyzer failed", map[string]interface{}{
			"url":   rawURL,
			"type":  string(resolved),
			"error": err.Error(),
		})
		return m.errorRecord(rawURL, resolved, domain.StatusError, err.Error(), start)
	}
	return record
}

// fetch retrieves the payload through the injected client and reads
// at most maxBytes+1 so oversized bodies can be detected upstream.
func (m *Manager) fetch(ctx context.Context, rawURL string, maxBytes int) ([]byte, int64, error) {
	start := m.now()

	resp, err := m.deps.HTTPClient.Get(ctx, rawURL)
	responseMs := m.now().Sub(start).Milliseconds()
	if err != nil {
		return nil, responseMs, err
	}
	defer resp.Body().Close()

	if code := resp.StatusCode(); code >= 400 {
		return nil, responseMs, &coreerrors.TransportError{URL: rawURL, StatusCode: code}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), int64(maxBytes)+1))
	if err != nil {
		return nil, responseMs, coreerrors.WrapError(err, "reading response body")
	}
	return body, responseMs, nil
}

func (m *Manager) errorRecord(rawURL string, resolved domain.ContentType, status domain.AnalysisStatus, message string, start time.Time) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		URL:              rawURL,
		ContentType:      resolved,
		Status:           status,
		ErrorMessage:     message,
		AnalyzedAt:       start,
		ProcessingTimeMs: m.now().Sub(start).Milliseconds(),
	}
}

// statusForError maps a fetch failure onto a terminal record status.
func statusForError(err error) domain.AnalysisStatus {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.StatusTimeout
	}
	if coreerrors.IsBlocked(err) {
		return domain.StatusBlocked
	}
	return domain.StatusError
}

func validateURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return errors.New("url cannot be empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}

// merge overlays per-request options on the manager defaults.
func (m *Manager) merge(opts config.AnalysisOptions) config.AnalysisOptions {
	if opts == (config.AnalysisOptions{}) {
		return m.defaults
	}
	return opts.Normalize()
}

// cachedRecord returns a previously stored record, or nil on miss or
// when caching is disabled. Cache failures are treated as misses.
func (m *Manager) cachedRecord(ctx context.Context, rawURL string, opts config.AnalysisOptions) *domain.AnalysisRecord {
	if m.deps.Cache == nil || opts.CacheTTL <= 0 {
		return nil
	}

	data, err := m.deps.Cache.Get(ctx, cacheKeyPrefix+rawURL)
	if err != nil || len(data) == 0 {
		return nil
	}

	var record domain.AnalysisRecord
	if err := json.Unmarshal(data, &record); err != nil {
		m.logDebug("Discarding undecodable cached record", map[string]interface{}{
			"url":   rawURL,
			"error": err.Error(),
		})
		return nil
	}
	return &record
}

// storeRecord caches successful records. Failed analyses are never
// cached so transient faults stay retryable.
func (m *Manager) storeRecord(ctx context.Context, rawURL string, record *domain.AnalysisRecord, opts config.AnalysisOptions) {
	if m.deps.Cache == nil || opts.CacheTTL <= 0 || record.Status != domain.StatusSuccess {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := m.deps.Cache.Set(ctx, cacheKeyPrefix+rawURL, data, opts.CacheTTL); err != nil {
		m.logDebug("Failed to cache record", map[string]interface{}{
			"url":   rawURL,
			"error": err.Error(),
		})
	}
}

func (m *Manager) logDebug(msg string, fields map[string]interface{}) {
	if m.deps.Logger != nil {
		m.deps.Logger.Debug(msg, fields)
	}
}
