// ABOUTME: API analysis domain model for structured JSON/XML payload analysis
// ABOUTME: Extracted records are normalized maps keyed by the common content schema

package domain

// ApiAnalysisRecord is the result of analyzing a structured API payload.
type ApiAnalysisRecord struct {
	// EndpointURL is the API endpoint the payload came from
	EndpointURL string `json:"endpoint_url"`

	// DetectedStructure describes the top-level payload shape,
	// e.g. "array_of_objects" or "envelope(data)"
	DetectedStructure string `json:"detected_structure"`

	// ExtractedRecords are normalized records. Mapped fields use the
	// common schema keys (title, content, url, date, author); unmapped
	// fields are preserved under their original names.
	ExtractedRecords []map[string]interface{} `json:"extracted_records"`

	// DetectedSchema names a known payload convention, empty when no
	// known shape matched. Detection never guesses.
	DetectedSchema string `json:"detected_schema,omitempty"`

	// TotalRecords equals len(ExtractedRecords)
	TotalRecords int `json:"total_records"`

	// DataQuality is the fraction of records carrying a title plus at
	// least one content field, in [0,1]
	DataQuality float64 `json:"data_quality"`

	// ErrorMessage is set when payload analysis failed
	ErrorMessage string `json:"error_message,omitempty"`
}
