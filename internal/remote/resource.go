package remote

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/carepoint/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// Status is where a Resource is in its load cycle.
type Status int

// Load cycle states.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is what a page renders from. Data is set only on success and Err only on failure.
type State[T any] struct {
	Data   T
	Err    error
	Status Status
}

// Loading reports whether a request is in flight.
func (s State[T]) Loading() bool {
	return s.Status == StatusLoading
}

// Fetcher retrieves one remote value.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Loaded is delivered to Update when a load finishes.
type Loaded[T any] struct {
	data   T
	err    error
	handle *Handle
}

// Resource tracks a single remote value. Only the most recently started load may
// change its state.
type Resource[T any] struct {
	lastGood T
	current  *Handle
	name     string
	state    State[T]
	hasGood  bool
}

// New creates an idle resource. The name appears in log lines.
func New[T any](name string) *Resource[T] {
	return &Resource[T]{name: name}
}

// State returns the current state.
func (r *Resource[T]) State() State[T] {
	return r.state
}

// LastGood returns the most recent successfully loaded value, which survives later
// failures and reloads.
func (r *Resource[T]) LastGood() (T, bool) {
	return r.lastGood, r.hasGood
}

// Load starts a new request, cancelling any that is still in flight, and returns the
// command that performs it.
func (r *Resource[T]) Load(ctx context.Context, fetch Fetcher[T]) tea.Cmd {
	h, reqCtx := r.begin(ctx)
	return func() tea.Msg {
		data, err := fetch(reqCtx)
		return Loaded[T]{handle: h, data: data, err: err}
	}
}

// Accept applies a finished load if it belongs to the current request. It reports
// whether the message was applied; stale results are dropped.
func (r *Resource[T]) Accept(msg Loaded[T]) bool {
	if msg.handle == nil || msg.handle != r.current || msg.handle.Cancelled() {
		return false
	}
	r.current = nil
	msg.handle.Cancel()

	if msg.err != nil {
		var zero T
		r.state = State[T]{Status: StatusFailed, Data: zero, Err: msg.err}
		if common.IsAuthRequired(msg.err) || errors.Is(msg.err, context.Canceled) {
			slog.Debug("Remote load ended without data", "resource", r.name, "error", msg.err)
		} else {
			slog.Warn("Remote load failed", "resource", r.name, "error", msg.err)
		}
		return true
	}

	r.state = State[T]{Status: StatusSuccess, Data: msg.data}
	r.lastGood = msg.data
	r.hasGood = true
	return true
}

// Fetch loads synchronously. It follows the same rules as Load followed by Accept.
func (r *Resource[T]) Fetch(ctx context.Context, fetch Fetcher[T]) State[T] {
	h, reqCtx := r.begin(ctx)
	data, err := fetch(reqCtx)
	r.Accept(Loaded[T]{handle: h, data: data, err: err})
	return r.state
}

// Close cancels the in-flight request. Any result still on its way is dropped.
func (r *Resource[T]) Close() {
	r.current.Cancel()
	r.current = nil
	if r.state.Status == StatusLoading {
		r.state.Status = StatusIdle
	}
}

func (r *Resource[T]) begin(ctx context.Context) (*Handle, context.Context) {
	r.current.Cancel()
	h, reqCtx := newHandle(ctx)
	r.current = h

	var zero T
	r.state = State[T]{Status: StatusLoading, Data: zero}
	return h, reqCtx
}
