package components

import (
	"github.com/Veraticus/carepoint/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// Page identifies one screen of the client.
type Page int

// Pages of the client.
const (
	PageHome Page = iota
	PageLogin
	PageRegister
	PageMedicines
	PageDashboard
	PageBooking
)

// String returns the page title shown in the navbar.
func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageLogin:
		return "Login"
	case PageRegister:
		return "Register"
	case PageMedicines:
		return "Medicine"
	case PageDashboard:
		return "Dashboard"
	case PageBooking:
		return "Book"
	default:
		return "Unknown"
	}
}

// NavigateMsg asks the root model to show another page.
type NavigateMsg struct {
	Page Page
}

// NotifyMsg reports the outcome of an action on the status line. When Err is set
// the line shows its user-facing message.
type NotifyMsg struct {
	Err  error
	Text string
}

// Navigate returns a command that switches to page.
func Navigate(page Page) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Page: page}
	}
}

// Notify returns a command that shows text on the status line.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Text: text}
	}
}

// Fail returns a command that reports err on the status line.
func Fail(err error) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Err: err}
	}
}

// retryHint follows a failed load on pages that can reload it.
const retryHint = "Press Ctrl+L to retry"

// failureText is what a page shows in place of data that failed to load. Being logged
// out is not a failure, so it gets loggedOut and no retry hint.
func failureText(err error, loggedOut string) string {
	msg := common.UserMessage(err)
	if msg == "" {
		return loggedOut
	}
	return msg + " · " + retryHint
}
