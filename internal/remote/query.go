package remote

import (
	"context"
	"time"

	"github.com/Veraticus/carepoint/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is how long filter input must settle before a search is issued.
const DefaultDebounce = 500 * time.Millisecond

// QueryFired is delivered when a debounce window closes without further input.
type QueryFired struct {
	handle   *Handle
	criteria model.FilterCriteria
}

// Query debounces filter criteria: only the last value set within the delay fires.
type Query struct {
	pending  *Handle
	criteria model.FilterCriteria
	delay    time.Duration
}

// NewQuery creates a debouncer. A non-positive delay uses DefaultDebounce.
func NewQuery(delay time.Duration) *Query {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Query{delay: delay}
}

// Criteria returns the most recently set criteria.
func (q *Query) Criteria() model.FilterCriteria {
	return q.criteria
}

// Pending reports whether a firing is scheduled.
func (q *Query) Pending() bool {
	return q.pending != nil && !q.pending.Cancelled()
}

// Set records new criteria, cancels any scheduled firing and schedules another.
// A cancelled timer command ends early and yields no message.
func (q *Query) Set(criteria model.FilterCriteria) tea.Cmd {
	q.Cancel()
	q.criteria = criteria

	h, ctx := newHandle(context.Background())
	q.pending = h
	delay := q.delay

	return func() tea.Msg {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if h.Cancelled() {
				return nil
			}
			return QueryFired{handle: h, criteria: criteria}
		}
	}
}

// Fired accepts a firing if it is the current one and returns its criteria.
func (q *Query) Fired(msg QueryFired) (model.FilterCriteria, bool) {
	if msg.handle == nil || msg.handle != q.pending || msg.handle.Cancelled() {
		return model.FilterCriteria{}, false
	}
	q.pending = nil
	msg.handle.Cancel()
	return msg.criteria, true
}

// Cancel drops the scheduled firing, if any.
func (q *Query) Cancel() {
	q.pending.Cancel()
	q.pending = nil
}
