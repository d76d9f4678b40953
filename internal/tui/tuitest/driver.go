// Package tuitest drives Bubble Tea models without a terminal.
package tuitest

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultIdle is how long Settle waits for an outstanding command before giving up on it.
const DefaultIdle = 250 * time.Millisecond

// Driver runs a model the way the Bubble Tea runtime does: commands execute on their own
// goroutines and their messages are fed back into Update one at a time. Spinner ticks
// are dropped so animations never keep a test busy.
type Driver struct {
	model    tea.Model
	results  chan tea.Msg
	Messages []tea.Msg
	Idle     time.Duration
	pending  int
}

// NewDriver wraps model. Call Init to run its initial command.
func NewDriver(model tea.Model) *Driver {
	return &Driver{
		model:   model,
		results: make(chan tea.Msg, 1024),
		Idle:    DefaultIdle,
	}
}

// Model returns the current model.
func (d *Driver) Model() tea.Model {
	return d.model
}

// Init runs the model's Init command and settles.
func (d *Driver) Init() *Driver {
	d.exec(d.model.Init())
	d.Settle()
	return d
}

// Send delivers msgs in order without waiting for the commands they start.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	for _, msg := range msgs {
		d.handle(msg)
	}
	return d
}

// Do sends msgs and then settles.
func (d *Driver) Do(msgs ...tea.Msg) *Driver {
	d.Send(msgs...)
	d.Settle()
	return d
}

// Settle processes command results until none arrive within Idle. Commands still
// running afterwards are left alone; their messages are handled by a later call.
func (d *Driver) Settle() {
	for d.pending > 0 {
		select {
		case msg := <-d.results:
			d.pending--
			d.handle(msg)
		case <-time.After(d.Idle):
			return
		}
	}
}

// WaitFor processes command results until the plain-text view contains text or
// timeout elapses.
func (d *Driver) WaitFor(text string, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for !strings.Contains(d.View(), text) {
		select {
		case msg := <-d.results:
			d.pending--
			d.handle(msg)
		case <-deadline:
			return false
		}
	}
	return true
}

// View renders the model with ANSI codes removed.
func (d *Driver) View() string {
	return StripANSI(d.model.View())
}

// Received reports whether a message satisfying match went through Update.
func (d *Driver) Received(match func(tea.Msg) bool) bool {
	for _, msg := range d.Messages {
		if match(msg) {
			return true
		}
	}
	return false
}

func (d *Driver) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	d.pending++
	go func() {
		d.results <- cmd()
	}()
}

func (d *Driver) handle(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			d.exec(cmd)
		}
		return
	case spinner.TickMsg:
		return
	}

	d.Messages = append(d.Messages, msg)
	next, cmd := d.model.Update(msg)
	d.model = next
	d.exec(cmd)
}
