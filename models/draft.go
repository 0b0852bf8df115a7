package models

import "time"

// DraftNote is the in-flight note for one capture invocation. Drafts are
// keyed by tab id and live in memory until the extension saves them.
// IsLoading is true only between capture-start and metadata resolution.
type DraftNote struct {
	TabID     int64     `json:"tab_id"`
	WindowID  int64     `json:"window_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Mode      string    `json:"mode"`
	IsLoading bool      `json:"is_loading"`
	PageMeta  *PageMeta `json:"page_meta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
