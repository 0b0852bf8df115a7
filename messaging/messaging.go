// Package messaging carries the typed request/reply contract between the
// background process and the content script in a captured tab. Each
// action has a declared timeout; fallback policy lives with the caller.
package messaging

import (
	"encoding/json"
	"errors"
	"time"
)

// Action names the message types the content script understands.
type Action string

const (
	ActionOpenOverlay  Action = "OPEN_OVERLAY"
	ActionGetMetadata  Action = "GET_METADATA"
	ActionStartCapture Action = "START_CAPTURE"
)

// ErrTimeout is returned when the content script does not reply within
// the action's deadline. Callers treat it like any other transport error.
var ErrTimeout = errors.New("content script did not respond in time")

// ErrQueueFull is returned when a tab's outbound queue has no room, which
// means no content script is draining it.
var ErrQueueFull = errors.New("tab message queue is full")

// Request is one message addressed to the content script of a tab.
type Request struct {
	ID      string          `json:"id"`
	TabID   int64           `json:"tab_id"`
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply resolves a pending request, by id.
type Reply struct {
	RequestID string          `json:"request_id"`
	OK        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// OverlayPayload is the OPEN_OVERLAY request body.
type OverlayPayload struct {
	Mode  string `json:"mode"`
	TabID int64  `json:"tabId"`
}

// Timeouts holds the per-action reply deadlines.
type Timeouts struct {
	OpenOverlay  time.Duration
	GetMetadata  time.Duration
	StartCapture time.Duration
}

func (t Timeouts) forAction(action Action) time.Duration {
	switch action {
	case ActionOpenOverlay:
		if t.OpenOverlay > 0 {
			return t.OpenOverlay
		}
	case ActionGetMetadata:
		if t.GetMetadata > 0 {
			return t.GetMetadata
		}
	case ActionStartCapture:
		if t.StartCapture > 0 {
			return t.StartCapture
		}
	}
	return 5 * time.Second
}
