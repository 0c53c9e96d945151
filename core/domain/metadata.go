// ABOUTME: PageMetadata is the lightweight preview shape for a URL
// ABOUTME: Cheap to compute, no content extraction or scoring involved

package domain

// PageMetadata carries the social-preview fields of a page. It is a
// shallow extraction for link previews; full content analysis goes
// through AnalysisRecord.
type PageMetadata struct {
	// URL is the page the metadata came from
	URL string `json:"url"`

	// Title is the page or Open Graph title
	Title string `json:"title,omitempty"`

	// Description is the meta or Open Graph description
	Description string `json:"description,omitempty"`

	// ImageURL is the representative preview image
	ImageURL string `json:"image_url,omitempty"`

	// SiteName is the Open Graph site name
	SiteName string `json:"site_name,omitempty"`

	// Favicon is the resolved favicon URL
	Favicon string `json:"favicon,omitempty"`
}
