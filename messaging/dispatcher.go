package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pickle/logger"

	"github.com/google/uuid"
)

// tabQueueSize bounds the requests waiting for one tab's content script.
const tabQueueSize = 16

// Dispatcher routes requests to per-tab queues and replies back to the
// caller by request id. The extension drains a tab's queue over long-poll
// and posts replies; callers block until the reply or the action timeout.
type Dispatcher struct {
	timeouts Timeouts

	mu      sync.Mutex
	queues  map[int64]chan Request
	pending map[string]chan Reply
}

func NewDispatcher(timeouts Timeouts) *Dispatcher {
	return &Dispatcher{
		timeouts: timeouts,
		queues:   make(map[int64]chan Request),
		pending:  make(map[string]chan Reply),
	}
}

func (d *Dispatcher) queue(tabID int64) chan Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := d.queues[tabID]
	if !ok {
		q = make(chan Request, tabQueueSize)
		d.queues[tabID] = q
	}
	return q
}

// Request sends an action to a tab's content script and waits for the
// reply, the action timeout, or ctx cancellation, whichever comes first.
func (d *Dispatcher) Request(ctx context.Context, tabID int64, action Action, payload json.RawMessage) (json.RawMessage, error) {
	req := Request{
		ID:      uuid.NewString(),
		TabID:   tabID,
		Action:  action,
		Payload: payload,
	}

	replyCh := make(chan Reply, 1)
	d.mu.Lock()
	d.pending[req.ID] = replyCh
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.pending, req.ID)
		d.mu.Unlock()
	}()

	select {
	case d.queue(tabID) <- req:
	default:
		return nil, fmt.Errorf("sending %s to tab %d: %w", action, tabID, ErrQueueFull)
	}
	logger.CaptureDebug("Dispatcher: queued %s for tab %d (request %s)", action, tabID, req.ID)

	timer := time.NewTimer(d.timeouts.forAction(action))
	defer timer.Stop()

	select {
	case reply := <-replyCh:
		if !reply.OK {
			return nil, fmt.Errorf("%s rejected by content script: %s", action, reply.Error)
		}
		return reply.Payload, nil
	case <-timer.C:
		return nil, fmt.Errorf("waiting for %s reply from tab %d: %w", action, tabID, ErrTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s reply from tab %d: %w", action, tabID, ctx.Err())
	}
}

// NextRequest blocks until a request is queued for the tab or ctx ends.
// This backs the extension's long-poll.
func (d *Dispatcher) NextRequest(ctx context.Context, tabID int64) (Request, error) {
	select {
	case req := <-d.queue(tabID):
		return req, nil
	case <-ctx.Done():
		return Request{}, ctx.Err()
	}
}

// Resolve delivers a reply to the caller waiting on its request id. A
// reply for an unknown (already timed out) request is dropped with an
// error so the bridge handler can report it.
func (d *Dispatcher) Resolve(reply Reply) error {
	d.mu.Lock()
	replyCh, ok := d.pending[reply.RequestID]
	if ok {
		delete(d.pending, reply.RequestID)
	}
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending request %s", reply.RequestID)
	}
	replyCh <- reply
	return nil
}
