// Package remote holds the client-side loading primitives every page is built from:
// a Resource that tracks one remote value with last-request-wins semantics, a debounced
// Query for filter inputs, and a Broadcast that tells subscribers to refetch.
//
// Resources and queries are driven from a single bubbletea Update loop. Their methods
// are not safe for concurrent use; only the commands they return run elsewhere.
package remote

import (
	"context"
	"sync/atomic"
)

var handleSeq atomic.Uint64

// Handle identifies one in-flight request or pending timer. Results carry the Handle
// that produced them so stale ones can be recognised and dropped.
type Handle struct {
	cancel    context.CancelFunc
	id        uint64
	cancelled atomic.Bool
}

func newHandle(parent context.Context) (*Handle, context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Handle{id: handleSeq.Add(1), cancel: cancel}, ctx
}

// Cancel aborts the work behind the handle. It is safe to call more than once.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	if h.cancelled.CompareAndSwap(false, true) {
		h.cancel()
	}
}

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool {
	return h == nil || h.cancelled.Load()
}

// ID is a process-unique sequence number, useful in logs.
func (h *Handle) ID() uint64 {
	if h == nil {
		return 0
	}
	return h.id
}
