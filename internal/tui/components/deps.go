package components

import (
	"context"
	"time"

	"github.com/Veraticus/carepoint/internal/service"
	"github.com/Veraticus/carepoint/internal/session"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Deps are the collaborators every page is built from.
type Deps struct {
	Ctx          context.Context
	Backend      service.Backend
	Sessions     *session.Prober
	Now          func() time.Time
	Currency     viewmodel.Currency
	Theme        themes.Theme
	Debounce     time.Duration
	ExpiringDays int
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// mount derives the context a page's requests run under. Cancelling it on close
// abandons everything the page started.
func (d Deps) mount() (context.Context, context.CancelFunc) {
	parent := d.Ctx
	if parent == nil {
		parent = context.Background()
	}
	return context.WithCancel(parent)
}

func newSpinner(theme themes.Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)
	return s
}
