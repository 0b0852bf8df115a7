package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"pickle/models"
)

// Client is the content-script client used by the capture orchestrator.
// It speaks the typed action contract over a Dispatcher.
type Client struct {
	dispatcher *Dispatcher
}

func NewClient(dispatcher *Dispatcher) *Client {
	return &Client{dispatcher: dispatcher}
}

// OpenOverlay instructs the tab's content script to render the
// capture/edit overlay.
func (c *Client) OpenOverlay(ctx context.Context, tabID int64, mode string) error {
	payload, err := json.Marshal(OverlayPayload{Mode: mode, TabID: tabID})
	if err != nil {
		return fmt.Errorf("encoding overlay payload: %w", err)
	}
	_, err = c.dispatcher.Request(ctx, tabID, ActionOpenOverlay, payload)
	return err
}

// RequestMetadata asks the content script for the page's metadata.
func (c *Client) RequestMetadata(ctx context.Context, tabID int64) (models.PageMeta, error) {
	raw, err := c.dispatcher.Request(ctx, tabID, ActionGetMetadata, nil)
	if err != nil {
		return models.PageMeta{}, err
	}
	return DecodePageMeta(raw)
}

// StartCapture tells the content script to begin a screen capture.
func (c *Client) StartCapture(ctx context.Context, tabID int64) error {
	_, err := c.dispatcher.Request(ctx, tabID, ActionStartCapture, nil)
	return err
}
