// ABOUTME: API payload analyzer classifies JSON and XML structures
// ABOUTME: Normalizes arbitrary records onto the common content schema

package apidata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/beevik/etree"

	"pagelens-api/core/config"
	"pagelens-api/core/domain"
	coreerrors "pagelens-api/core/errors"
	"pagelens-api/core/interfaces"
	"pagelens-api/core/scoring"
	"pagelens-api/pkg/utils/htmltext"
	"pagelens-api/pkg/utils/timeparse"
)

// maxRecords caps how many records are extracted from one payload.
const maxRecords = 200

// containerKeys are tried in order when looking for an envelope that
// wraps the record array.
var containerKeys = []string{"data", "items", "results", "records", "entries", "value", "rows", "hits"}

// paginationKeys mark an envelope as paginated.
var paginationKeys = []string{"page", "pages", "total", "total_count", "totalcount", "next", "prev", "offset", "limit", "cursor", "meta", "pagination"}

// fieldAliases maps source field names onto the normalized schema.
// Matching is case-insensitive.
var fieldAliases = map[string]string{
	"title":    "title",
	"name":     "title",
	"headline": "title",

	"body":        "content",
	"content":     "content",
	"description": "content",
	"summary":     "content",
	"text":        "content",

	"url":       "url",
	"link":      "url",
	"href":      "url",
	"permalink": "url",

	"date":         "date",
	"published_at": "date",
	"publishedat":  "date",
	"created":      "date",
	"created_at":   "date",
	"createdat":    "date",
	"pubdate":      "date",
	"timestamp":    "date",

	"author":  "author",
	"creator": "author",
	"by":      "author",
}

// Analyzer inspects API payloads and normalizes their records.
type Analyzer struct {
	deps interfaces.Dependencies
}

// NewAnalyzer creates a new API payload analyzer.
func NewAnalyzer(deps interfaces.Dependencies) *Analyzer {
	return &Analyzer{deps: deps}
}

// Analyze classifies the payload structure and extracts normalized
// records. JSON is tried first; payloads opening with '<' go through
// the XML path. An unparseable payload returns a ParseError.
func (a *Analyzer) Analyze(payload []byte, endpointURL, schemaHint string) (*domain.ApiAnalysisRecord, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return nil, &coreerrors.ParseError{Format: "api", Message: "empty payload"}
	}

	record := &domain.ApiAnalysisRecord{
		EndpointURL: endpointURL,
	}

	if trimmed[0] == '<' {
		return a.analyzeXML(payload, record)
	}

	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &coreerrors.ParseError{Format: "api", Message: fmt.Sprintf("invalid json: %v", err)}
	}

	record.DetectedStructure = DetectStructure(decoded)
	record.ExtractedRecords = ExtractRecords(decoded, record.DetectedStructure)
	record.TotalRecords = len(record.ExtractedRecords)
	record.DataQuality = dataQuality(record.ExtractedRecords)
	record.DetectedSchema = detectSchema(decoded, schemaHint)

	return record, nil
}

// AnalyzeAsRecord shapes an API payload analysis as an AnalysisRecord
// so API endpoints flow through the same pipeline as pages and feeds.
func (a *Analyzer) AnalyzeAsRecord(payload []byte, endpointURL string, opts config.AnalysisOptions, now time.Time) (*domain.AnalysisRecord, error) {
	opts = opts.Normalize()

	apiRecord, err := a.Analyze(payload, endpointURL, "")
	if err != nil {
		return nil, err
	}

	record := &domain.AnalysisRecord{
		URL:           endpointURL,
		ContentType:   domain.ContentTypeAPI,
		Status:        domain.StatusSuccess,
		Description:   apiRecord.DetectedStructure,
		ContentLength: len(payload),
		AnalyzedAt:    now,
	}

	record.Title, record.MainContent = recordDigest(apiRecord.ExtractedRecords)
	record.Summary = htmltext.Truncate(record.MainContent, opts.SummaryLength)
	record.PublishedAt = newestRecordDate(apiRecord.ExtractedRecords)

	if opts.CalculateScores {
		in := scoring.Input{
			Title:                 record.Title,
			Description:           record.Description,
			MainContent:           record.MainContent,
			HasPublishedDate:      record.PublishedAt != nil,
			HasStructuredMetadata: apiRecord.TotalRecords > 0,
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

// DetectStructure classifies the top-level shape of a decoded JSON
// payload. Envelope structures name their container key, for example
// "envelope(data)".
func DetectStructure(decoded interface{}) string {
	switch v := decoded.(type) {
	case []interface{}:
		if len(v) == 0 {
			return "empty_array"
		}
		if _, ok := v[0].(map[string]interface{}); ok {
			return "array_of_objects"
		}
		return "array_of_values"

	case map[string]interface{}:
		if key, paginated := findContainer(v); key != "" {
			if paginated {
				return "paginated_envelope(" + key + ")"
			}
			return "envelope(" + key + ")"
		}
		if isErrorEnvelope(v) {
			return "error_envelope"
		}
		return "single_object"
	}
	return "scalar"
}

// findContainer looks for a known container key holding an array and
// reports whether pagination markers sit alongside it.
func findContainer(obj map[string]interface{}) (string, bool) {
	lower := make(map[string]string, len(obj))
	for k := range obj {
		lower[strings.ToLower(k)] = k
	}

	for _, candidate := range containerKeys {
		original, ok := lower[candidate]
		if !ok {
			continue
		}
		if _, isArray := obj[original].([]interface{}); !isArray {
			continue
		}
		for _, marker := range paginationKeys {
			if _, present := lower[marker]; present {
				return candidate, true
			}
		}
		return candidate, false
	}
	return "", false
}

func isErrorEnvelope(obj map[string]interface{}) bool {
	for k := range obj {
		switch strings.ToLower(k) {
		case "error", "errors", "message":
			return true
		}
	}
	return false
}

// ExtractRecords walks the detected container and maps field names
// onto the normalized schema. Unmapped fields are kept under their
// original names rather than discarded.
func ExtractRecords(decoded interface{}, structure string) []map[string]interface{} {
	var raw []interface{}

	switch {
	case structure == "array_of_objects":
		raw = decoded.([]interface{})
	case strings.HasPrefix(structure, "envelope(") || strings.HasPrefix(structure, "paginated_envelope("):
		key := structure[strings.Index(structure, "(")+1 : len(structure)-1]
		obj := decoded.(map[string]interface{})
		for k, v := range obj {
			if strings.EqualFold(k, key) {
				raw, _ = v.([]interface{})
				break
			}
		}
	case structure == "single_object":
		raw = []interface{}{decoded}
	default:
		return nil
	}

	if len(raw) > maxRecords {
		raw = raw[:maxRecords]
	}

	records := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, normalizeRecord(obj))
	}
	return records
}

// normalizeRecord maps one object's fields case-insensitively. When
// several source fields map to the same normalized name the first in
// sorted key order wins, keeping output deterministic.
func normalizeRecord(obj map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make(map[string]interface{}, len(obj))
	for _, k := range keys {
		target, mapped := fieldAliases[strings.ToLower(k)]
		if !mapped {
			normalized[k] = obj[k]
			continue
		}
		if _, taken := normalized[target]; taken {
			normalized[k] = obj[k]
			continue
		}
		normalized[target] = obj[k]
	}
	return normalized
}

// dataQuality is the fraction of records carrying a title plus at
// least one content field after normalization.
func dataQuality(records []map[string]interface{}) float64 {
	if len(records) == 0 {
		return 0
	}
	complete := 0
	for _, r := range records {
		if hasText(r, "title") && hasText(r, "content") {
			complete++
		}
	}
	return float64(complete) / float64(len(records))
}

func hasText(record map[string]interface{}, key string) bool {
	v, ok := record[key]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// detectSchema matches known payload conventions. Returns empty when
// nothing matches; it never guesses.
func detectSchema(decoded interface{}, hint string) string {
	if hint != "" {
		switch strings.ToLower(strings.TrimSpace(hint)) {
		case "jsonapi", "hal", "odata":
			return strings.ToLower(strings.TrimSpace(hint))
		}
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return ""
	}

	if data, ok := obj["data"]; ok {
		if isAttributeWrapped(data) {
			return "jsonapi"
		}
	}
	if _, ok := obj["_embedded"]; ok {
		if _, ok := obj["_links"]; ok {
			return "hal"
		}
	}
	for k := range obj {
		if strings.HasPrefix(k, "@odata.") {
			return "odata"
		}
	}
	return ""
}

// isAttributeWrapped checks for resource objects carrying type, id
// and an attributes map.
func isAttributeWrapped(data interface{}) bool {
	check := func(item interface{}) bool {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return false
		}
		_, hasType := obj["type"]
		_, hasID := obj["id"]
		_, hasAttrs := obj["attributes"].(map[string]interface{})
		return hasType && hasID && hasAttrs
	}

	switch v := data.(type) {
	case []interface{}:
		return len(v) > 0 && check(v[0])
	case map[string]interface{}:
		return check(v)
	}
	return false
}

// analyzeXML extracts records from an XML payload: the most repeated
// child element under the root is treated as the row element.
func (a *Analyzer) analyzeXML(payload []byte, record *domain.ApiAnalysisRecord) (*domain.ApiAnalysisRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(payload); err != nil {
		return nil, &coreerrors.ParseError{Format: "api", Message: fmt.Sprintf("invalid xml: %v", err)}
	}
	root := doc.Root()
	if root == nil {
		return nil, &coreerrors.ParseError{Format: "api", Message: "xml document has no root element"}
	}

	rowTag := repeatedChildTag(root)
	if rowTag == "" {
		// No repetition: the root itself is the single record.
		record.DetectedStructure = "xml_object"
		record.ExtractedRecords = []map[string]interface{}{xmlElementToRecord(root)}
		record.TotalRecords = 1
		record.DataQuality = dataQuality(record.ExtractedRecords)
		return record, nil
	}

	record.DetectedStructure = "xml_rows(" + rowTag + ")"
	for _, child := range root.ChildElements() {
		if child.Tag != rowTag {
			continue
		}
		record.ExtractedRecords = append(record.ExtractedRecords, xmlElementToRecord(child))
		if len(record.ExtractedRecords) >= maxRecords {
			break
		}
	}
	record.TotalRecords = len(record.ExtractedRecords)
	record.DataQuality = dataQuality(record.ExtractedRecords)
	return record, nil
}

// repeatedChildTag returns the child tag occurring more than once
// under el, preferring the most frequent. Ties break alphabetically.
func repeatedChildTag(el *etree.Element) string {
	counts := make(map[string]int)
	for _, child := range el.ChildElements() {
		counts[child.Tag]++
	}

	best := ""
	bestCount := 1
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if counts[tag] > bestCount {
			best = tag
			bestCount = counts[tag]
		}
	}
	return best
}

// xmlElementToRecord flattens an element's children and attributes
// into a map, then normalizes field names like the JSON path does.
func xmlElementToRecord(el *etree.Element) map[string]interface{} {
	obj := make(map[string]interface{})
	for _, attr := range el.Attr {
		obj[attr.Key] = attr.Value
	}
	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		if _, exists := obj[child.Tag]; !exists {
			obj[child.Tag] = text
		}
	}
	if len(obj) == 0 {
		obj["value"] = strings.TrimSpace(el.Text())
	}
	return normalizeRecord(obj)
}

// recordDigest builds a representative title and a text body from
// normalized records for record-level scoring.
func recordDigest(records []map[string]interface{}) (title, content string) {
	var b strings.Builder
	for i, r := range records {
		t, _ := r["title"].(string)
		c, _ := r["content"].(string)
		if i == 0 {
			title = t
		}
		if t != "" {
			b.WriteString(t)
			b.WriteString(". ")
		}
		if c != "" {
			b.WriteString(c)
			b.WriteString(" ")
		}
	}
	return title, htmltext.Collapse(b.String())
}

func newestRecordDate(records []map[string]interface{}) *time.Time {
	var newest *time.Time
	for _, r := range records {
		s, _ := r["date"].(string)
		if s == "" {
			continue
		}
		if t := timeparse.ParsePtr(s); t != nil {
			if newest == nil || t.After(*newest) {
				newest = t
			}
		}
	}
	return newest
}
