package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pickle/logger"
	"pickle/messaging"
)

// pollWindow bounds one long-poll cycle; the extension reconnects
// immediately after an empty response.
const pollWindow = 25 * time.Second

// PollMessagesHandler is the extension side of the message bridge: the
// content script long-polls here for the next request addressed to its
// tab. An empty window ends with 204 and the client polls again.
func PollMessagesHandler(w http.ResponseWriter, r *http.Request) {
	tabID, err := strconv.ParseInt(r.URL.Query().Get("tab_id"), 10, 64)
	if err != nil || tabID == 0 {
		writeError(w, http.StatusBadRequest, "Invalid tab_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pollWindow)
	defer cancel()

	req, err := cfg.Dispatcher.NextRequest(ctx, tabID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logger.CaptureError("PollMessagesHandler: tab %d: %v", tabID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// PostReplyHandler resolves a pending bridge request with the content
// script's reply. A reply for a request that already timed out gets 410.
func PostReplyHandler(w http.ResponseWriter, r *http.Request) {
	var reply messaging.Reply
	if err := json.NewDecoder(r.Body).Decode(&reply); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if reply.RequestID == "" {
		writeError(w, http.StatusBadRequest, "request_id is required")
		return
	}

	if err := cfg.Dispatcher.Resolve(reply); err != nil {
		logger.CaptureDebug("PostReplyHandler: %v", err)
		writeError(w, http.StatusGone, "Request already resolved or timed out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
