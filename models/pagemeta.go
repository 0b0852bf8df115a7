package models

// PageMeta is the metadata extracted from a captured page's document,
// or a fallback record when extraction fails.
type PageMeta struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SiteName    string `json:"site_name"`
	Favicon     string `json:"favicon"`
}
