package apidata

import (
	"encoding/json"
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

func TestAnalyze_DataEnvelope(t *testing.T) {
	payload := `{"data":[{"title":"A","body":"hi"},{"title":"B"}]}`
	record, err := newTestAnalyzer().Analyze([]byte(payload), "https://api.example.com/posts", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if record.DetectedStructure != "envelope(data)" {
		t.Errorf("DetectedStructure = %q, want envelope(data)", record.DetectedStructure)
	}
	if len(record.ExtractedRecords) != 2 {
		t.Fatalf("ExtractedRecords length = %d, want 2", len(record.ExtractedRecords))
	}
	if record.DataQuality != 0.5 {
		t.Errorf("DataQuality = %v, want 0.5 (one record missing a content field)", record.DataQuality)
	}

	first := record.ExtractedRecords[0]
	if first["title"] != "A" {
		t.Errorf("first record title = %v, want A", first["title"])
	}
	if first["content"] != "hi" {
		t.Errorf("first record content = %v, want body mapped to content", first["content"])
	}
}

func TestDetectStructure(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"bare array", `[{"title":"x"}]`, "array_of_objects"},
		{"scalar array", `[1,2,3]`, "array_of_values"},
		{"empty array", `[]`, "empty_array"},
		{"single object", `{"title":"x","body":"y"}`, "single_object"},
		{"items envelope", `{"items":[{"name":"x"}]}`, "envelope(items)"},
		{"paginated", `{"results":[{"name":"x"}],"page":1,"total":40}`, "paginated_envelope(results)"},
		{"error envelope", `{"error":"not found","code":404}`, "error_envelope"},
	}

	for _, tt := range tests {
		var decoded interface{}
		if err := json.Unmarshal([]byte(tt.payload), &decoded); err != nil {
			t.Fatalf("%s: bad fixture: %v", tt.name, err)
		}
		if got := DetectStructure(decoded); got != tt.want {
			t.Errorf("%s: DetectStructure = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractRecords_CaseInsensitiveMapping(t *testing.T) {
	payload := `[{"Headline":"News","Content":"Text here","Link":"https://example.com","Published_At":"2025-06-01","Creator":"Jane"}]`
	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}

	records := ExtractRecords(decoded, "array_of_objects")
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]

	for key, want := range map[string]interface{}{
		"title":   "News",
		"content": "Text here",
		"url":     "https://example.com",
		"date":    "2025-06-01",
		"author":  "Jane",
	} {
		if r[key] != want {
			t.Errorf("record[%q] = %v, want %v", key, r[key], want)
		}
	}
}

func TestExtractRecords_KeepsUnmappedFields(t *testing.T) {
	payload := `[{"title":"x","votes":42,"category":"misc"}]`
	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}

	r := ExtractRecords(decoded, "array_of_objects")[0]
	if r["votes"] != float64(42) {
		t.Errorf("unmapped votes field should survive, got %v", r["votes"])
	}
	if r["category"] != "misc" {
		t.Errorf("unmapped category field should survive, got %v", r["category"])
	}
}

func TestExtractRecords_AliasCollision(t *testing.T) {
	// body and description both map to content; the loser keeps its
	// original key instead of being dropped.
	payload := `[{"body":"primary","description":"secondary"}]`
	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatal(err)
	}

	r := ExtractRecords(decoded, "array_of_objects")[0]
	if r["content"] != "primary" {
		t.Errorf("content = %v, want body (first in sorted key order)", r["content"])
	}
	if r["description"] != "secondary" {
		t.Errorf("description = %v, want preserved under original key", r["description"])
	}
}

func TestAnalyze_SingleObject(t *testing.T) {
	payload := `{"title":"Solo","body":"content text"}`
	record, err := newTestAnalyzer().Analyze([]byte(payload), "https://api.example.com/post/1", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if record.DetectedStructure != "single_object" {
		t.Errorf("DetectedStructure = %q", record.DetectedStructure)
	}
	if record.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", record.TotalRecords)
	}
	if record.DataQuality != 1.0 {
		t.Errorf("DataQuality = %v, want 1.0", record.DataQuality)
	}
}

func TestAnalyze_ErrorEnvelope(t *testing.T) {
	record, err := newTestAnalyzer().Analyze([]byte(`{"error":"forbidden"}`), "https://api.example.com/x", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if record.DetectedStructure != "error_envelope" {
		t.Errorf("DetectedStructure = %q, want error_envelope", record.DetectedStructure)
	}
	if record.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0", record.TotalRecords)
	}
}

func TestAnalyze_InvalidPayload(t *testing.T) {
	if _, err := newTestAnalyzer().Analyze([]byte(`{"unterminated`), "https://api.example.com/x", ""); err == nil {
		t.Error("expected parse error for invalid JSON")
	}
	if _, err := newTestAnalyzer().Analyze([]byte("   "), "https://api.example.com/x", ""); err == nil {
		t.Error("expected parse error for empty payload")
	}
}

func TestDetectSchema(t *testing.T) {
	jsonapi := `{"data":[{"type":"articles","id":"1","attributes":{"title":"x"}}]}`
	record, err := newTestAnalyzer().Analyze([]byte(jsonapi), "https://api.example.com/articles", "")
	if err != nil {
		t.Fatal(err)
	}
	if record.DetectedSchema != "jsonapi" {
		t.Errorf("DetectedSchema = %q, want jsonapi", record.DetectedSchema)
	}

	plain := `{"data":[{"title":"x"}]}`
	record, err = newTestAnalyzer().Analyze([]byte(plain), "https://api.example.com/articles", "")
	if err != nil {
		t.Fatal(err)
	}
	if record.DetectedSchema != "" {
		t.Errorf("DetectedSchema = %q, want empty (never guesses)", record.DetectedSchema)
	}
}

func TestAnalyze_SchemaHint(t *testing.T) {
	record, err := newTestAnalyzer().Analyze([]byte(`{"data":[{"title":"x"}]}`), "https://api.example.com/x", "jsonapi")
	if err != nil {
		t.Fatal(err)
	}
	if record.DetectedSchema != "jsonapi" {
		t.Errorf("DetectedSchema = %q, want hint honored", record.DetectedSchema)
	}
}

func TestAnalyze_XMLRows(t *testing.T) {
	payload := `<?xml version="1.0"?>
	<catalog>
		<book id="1"><title>First</title><description>About things</description></book>
		<book id="2"><title>Second</title></book>
	</catalog>`

	record, err := newTestAnalyzer().Analyze([]byte(payload), "https://api.example.com/books.xml", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if record.DetectedStructure != "xml_rows(book)" {
		t.Errorf("DetectedStructure = %q, want xml_rows(book)", record.DetectedStructure)
	}
	if record.TotalRecords != 2 {
		t.Fatalf("TotalRecords = %d, want 2", record.TotalRecords)
	}
	if record.ExtractedRecords[0]["title"] != "First" {
		t.Errorf("first row title = %v", record.ExtractedRecords[0]["title"])
	}
	if record.ExtractedRecords[0]["content"] != "About things" {
		t.Errorf("description should normalize to content, got %v", record.ExtractedRecords[0]["content"])
	}
	if record.ExtractedRecords[0]["id"] != "1" {
		t.Errorf("attributes should be kept, got %v", record.ExtractedRecords[0]["id"])
	}
	if record.DataQuality != 0.5 {
		t.Errorf("DataQuality = %v, want 0.5", record.DataQuality)
	}
}

func TestAnalyze_XMLSingleObject(t *testing.T) {
	payload := `<post><title>Only</title><body>text</body></post>`
	record, err := newTestAnalyzer().Analyze([]byte(payload), "https://api.example.com/post.xml", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if record.DetectedStructure != "xml_object" {
		t.Errorf("DetectedStructure = %q, want xml_object", record.DetectedStructure)
	}
	if record.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", record.TotalRecords)
	}
}

func TestAnalyzeAsRecord(t *testing.T) {
	payload := `{"data":[{"title":"A","body":"hello there","published_at":"2025-06-10"},{"title":"B","body":"more text"}]}`
	record, err := newTestAnalyzer().AnalyzeAsRecord([]byte(payload), "https://api.example.com/posts", config.DefaultOptions(), testNow)
	if err != nil {
		t.Fatalf("AnalyzeAsRecord returned error: %v", err)
	}

	if record.ContentType != domain.ContentTypeAPI {
		t.Errorf("ContentType = %v, want api", record.ContentType)
	}
	if record.Status != domain.StatusSuccess {
		t.Errorf("Status = %v, want success", record.Status)
	}
	if record.Title != "A" {
		t.Errorf("Title = %q, want first record title", record.Title)
	}
	if record.PublishedAt == nil {
		t.Error("PublishedAt should carry the newest record date")
	}
	for name, score := range map[string]float64{
		"relevance": record.Scores.Relevance,
		"quality":   record.Scores.Quality,
		"freshness": record.Scores.Freshness,
	} {
		if score < 0 || score > 1 {
			t.Errorf("%s = %v, outside [0,1]", name, score)
		}
	}
}
