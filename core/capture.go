package core

import (
	"context"
	"time"

	"pickle/logger"
	"pickle/models"
)

// Fallback metadata values used when extraction fails or the page offers
// no title.
const (
	FallbackTitle           = "No Title"
	FallbackMetaDescription = "Page information could not be retrieved from this tab."
)

// ContentScriptClient is the typed contract to the content script running
// in a captured tab. Every call is independently fallible; only metadata
// requests have a declared fallback.
type ContentScriptClient interface {
	OpenOverlay(ctx context.Context, tabID int64, mode string) error
	RequestMetadata(ctx context.Context, tabID int64) (models.PageMeta, error)
	StartCapture(ctx context.Context, tabID int64) error
}

// CaptureRequest describes one user-initiated capture action.
type CaptureRequest struct {
	WindowID int64  `json:"window_id"`
	TabID    int64  `json:"tab_id"`
	TabURL   string `json:"tab_url"`
	TabTitle string `json:"tab_title"`
	Mode     string `json:"mode"`
}

// Orchestrator turns a capture action into a per-tab draft note,
// coordinating with the content script over the message bridge.
//
// Each invocation follows a strict three-phase protocol: the draft write
// completes before the overlay-open message is sent, and overlay-open
// completes before the enrichment or capture-start request. The overlay
// UI therefore always finds a draft to bind to. The phases are sequential
// on purpose; do not parallelize them.
type Orchestrator struct {
	drafts *DraftStore
	client ContentScriptClient
}

func NewOrchestrator(drafts *DraftStore, client ContentScriptClient) *Orchestrator {
	return &Orchestrator{drafts: drafts, client: client}
}

// Capture runs one capture invocation. A request without both a window id
// and a tab id aborts silently: no draft is written, no message is sent.
func (o *Orchestrator) Capture(ctx context.Context, req CaptureRequest) {
	if req.WindowID == 0 || req.TabID == 0 {
		logger.CaptureDebug("Orchestrator: ignoring capture without window/tab id (window=%d, tab=%d)", req.WindowID, req.TabID)
		return
	}

	// Phase 1: draft write. Bookmark mode starts loading until metadata
	// resolves; capture mode never sets the loading flag.
	draft := models.DraftNote{
		TabID:     req.TabID,
		WindowID:  req.WindowID,
		Content:   "",
		URL:       req.TabURL,
		Mode:      req.Mode,
		IsLoading: req.Mode == models.ModeBookmark,
		CreatedAt: time.Now().UTC(),
	}
	o.drafts.Put(draft)
	logger.CaptureInfo("Orchestrator: draft written for tab %d (mode: %s)", req.TabID, req.Mode)

	// Phase 2: overlay open. Awaited for ordering; a failure is logged
	// and not recovered, and the draft stays as written.
	if err := o.client.OpenOverlay(ctx, req.TabID, req.Mode); err != nil {
		logger.CaptureWarn("Orchestrator: failed to open overlay for tab %d: %v", req.TabID, err)
	}

	// Phase 3: enrichment or capture start.
	switch req.Mode {
	case models.ModeBookmark:
		o.enrich(ctx, req)
	case models.ModeCapture:
		if err := o.client.StartCapture(ctx, req.TabID); err != nil {
			logger.CaptureWarn("Orchestrator: failed to start capture for tab %d: %v", req.TabID, err)
		}
	}
}

// enrich asks the content script for page metadata and updates the draft.
// Extraction failure falls back to what the background process already
// knows about the tab; the fallback write always succeeds.
func (o *Orchestrator) enrich(ctx context.Context, req CaptureRequest) {
	meta, err := o.client.RequestMetadata(ctx, req.TabID)
	if err != nil {
		logger.CaptureWarn("Orchestrator: metadata extraction failed for tab %d, using fallback: %v", req.TabID, err)
		meta = FallbackMeta(req.TabTitle, req.TabURL)
	}

	o.drafts.Update(req.TabID, func(draft *models.DraftNote) {
		draft.IsLoading = false
		draft.PageMeta = &meta
		draft.Title = meta.Title
	})
	logger.CaptureInfo("Orchestrator: draft enriched for tab %d (title: %q)", req.TabID, meta.Title)
}

// FallbackMeta builds the metadata record used when extraction fails,
// from the tab's own title and URL.
func FallbackMeta(tabTitle, tabURL string) models.PageMeta {
	title := tabTitle
	if title == "" {
		title = FallbackTitle
	}
	return models.PageMeta{
		Title:       title,
		URL:         tabURL,
		Description: FallbackMetaDescription,
	}
}
