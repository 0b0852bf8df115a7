package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortTimeouts() Timeouts {
	return Timeouts{
		OpenOverlay:  200 * time.Millisecond,
		GetMetadata:  200 * time.Millisecond,
		StartCapture: 200 * time.Millisecond,
	}
}

// pumpReplies drains a tab's queue and resolves every request with fn.
func pumpReplies(ctx context.Context, d *Dispatcher, tabID int64, fn func(Request) Reply) {
	go func() {
		for {
			req, err := d.NextRequest(ctx, tabID)
			if err != nil {
				return
			}
			_ = d.Resolve(fn(req))
		}
	}()
}

func TestRequestReplyRoundTrip(t *testing.T) {
	d := NewDispatcher(shortTimeouts())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pumpReplies(ctx, d, 7, func(req Request) Reply {
		assert.Equal(t, ActionGetMetadata, req.Action)
		return Reply{
			RequestID: req.ID,
			OK:        true,
			Payload:   json.RawMessage(`{"title":"Example","url":"https://example.com"}`),
		}
	})

	payload, err := d.Request(ctx, 7, ActionGetMetadata, nil)
	require.NoError(t, err)

	meta, err := DecodePageMeta(payload)
	require.NoError(t, err)
	assert.Equal(t, "Example", meta.Title)
}

func TestRequestRejectedReply(t *testing.T) {
	d := NewDispatcher(shortTimeouts())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pumpReplies(ctx, d, 3, func(req Request) Reply {
		return Reply{RequestID: req.ID, OK: false, Error: "overlay blocked by page CSP"}
	})

	_, err := d.Request(ctx, 3, ActionOpenOverlay, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlay blocked by page CSP")
}

func TestRequestTimesOutWithoutConsumer(t *testing.T) {
	d := NewDispatcher(shortTimeouts())

	start := time.Now()
	_, err := d.Request(context.Background(), 1, ActionOpenOverlay, nil)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRequestContextCancellation(t *testing.T) {
	d := NewDispatcher(Timeouts{OpenOverlay: 10 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := d.Request(ctx, 1, ActionOpenOverlay, nil)
		errCh <- err
	}()
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("request did not return after context cancellation")
	}
}

func TestQueueFullRejectsImmediately(t *testing.T) {
	d := NewDispatcher(Timeouts{OpenOverlay: 100 * time.Millisecond})

	// Saturate the tab's queue with requests nobody drains. Timed-out
	// requests stay queued, so the queue remains full.
	var wg sync.WaitGroup
	for i := 0; i < tabQueueSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Request(context.Background(), 5, ActionOpenOverlay, nil)
		}()
	}
	wg.Wait()

	_, err := d.Request(context.Background(), 5, ActionOpenOverlay, nil)
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestResolveUnknownRequest(t *testing.T) {
	d := NewDispatcher(shortTimeouts())
	err := d.Resolve(Reply{RequestID: "ghost", OK: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pending request")
}

func TestNextRequestHonorsContext(t *testing.T) {
	d := NewDispatcher(shortTimeouts())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := d.NextRequest(ctx, 9)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
