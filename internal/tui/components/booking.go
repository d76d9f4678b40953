package components

import (
	"context"

	"github.com/Veraticus/carepoint/internal/booking"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	bookingDate = iota
	bookingSlot
)

type bookingDoneMsg struct {
	err error
}

// BookingModel is the appointment page: a date, a time slot and a book action.
type BookingModel struct {
	ctx        context.Context
	cancel     context.CancelFunc
	controller *booking.Controller
	sessions   *session.Prober
	theme      themes.Theme
	spinner    spinner.Model
	status     string
	form       form
	slot       int
	failed     bool
	inFlight   bool
}

// NewBookingModel creates the booking page.
func NewBookingModel(deps Deps) BookingModel {
	ctx, cancel := deps.mount()
	return BookingModel{
		ctx:        ctx,
		cancel:     cancel,
		controller: booking.NewController(deps.Backend, deps.Sessions),
		sessions:   deps.Sessions,
		theme:      deps.Theme,
		spinner:    newSpinner(deps.Theme),
		slot:       -1,
		form: newForm(1,
			field{label: "Date", placeholder: "YYYY-MM-DD", limit: 10},
		),
	}
}

// Init returns initial commands.
func (m BookingModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m BookingModel) Update(msg tea.Msg) (BookingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingDoneMsg:
		if !m.inFlight {
			return m, nil
		}
		m.inFlight = false
		m.status = m.controller.Settle(msg.err)
		m.failed = msg.err != nil
		if msg.err == nil {
			m.form.reset()
			m.slot = -1
		}
		return m, nil

	case spinner.TickMsg:
		if m.inFlight {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.inFlight {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.form.next()
			return m, nil
		case "shift+tab", "up":
			m.form.prev()
			return m, nil
		case "left":
			if m.form.focus == bookingSlot {
				m.slot = max(m.slot-1, 0)
				return m, nil
			}
		case "right":
			if m.form.focus == bookingSlot {
				m.slot = min(m.slot+1, len(model.TimeSlots)-1)
				return m, nil
			}
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m BookingModel) submit() (BookingModel, tea.Cmd) {
	if !m.controller.CanSubmit(m.inFlight) {
		m.status = booking.MsgFillFields
		m.failed = true
		return m, nil
	}

	f := booking.Form{Date: m.form.value(bookingDate)}
	if m.slot >= 0 {
		f.Time = model.TimeSlots[m.slot]
	}
	req, err := m.controller.Request(f)
	if err != nil {
		m.status = m.controller.Settle(err)
		m.failed = true
		return m, nil
	}

	m.inFlight = true
	m.status = ""
	controller, ctx := m.controller, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return bookingDoneMsg{err: controller.Submit(ctx, req)}
	})
}

// View renders the page.
func (m BookingModel) View() string {
	sections := []string{
		m.theme.Title.Render("Book an appointment"),
	}
	if !m.sessions.CanBook() {
		sections = append(sections, m.theme.StatusWarning.Render("Log in to book an appointment"), "")
	}

	slotLabel := m.theme.Subtitle.Render("Time")
	if m.form.focus == bookingSlot {
		slotLabel = m.theme.Bold.Render("Time")
	}
	sections = append(sections,
		m.form.view(m.theme),
		slotLabel,
		selector(m.theme, model.TimeSlots, m.slot, m.form.focus == bookingSlot),
		"",
	)

	switch {
	case m.inFlight:
		sections = append(sections, m.spinner.View()+" "+m.theme.StatusPending.Render("Booking..."))
	case m.status != "" && m.failed:
		sections = append(sections, m.theme.StatusError.Render(m.status))
	case m.status != "":
		sections = append(sections, m.theme.StatusSuccess.Render(m.status))
	default:
		sections = append(sections, m.theme.Faint.Render("←/→ pick a time · Enter to book"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Resize updates the page dimensions.
func (m *BookingModel) Resize(width, _ int) {
	m.form.inputs[bookingDate].Width = min(max(width-4, 10), 20)
}

// Close abandons a booking still in flight.
func (m BookingModel) Close() {
	m.cancel()
}
