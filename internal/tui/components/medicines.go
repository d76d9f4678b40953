package components

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/remote"
	"github.com/Veraticus/carepoint/internal/service"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	filterName = iota
	filterCategory
	filterDate
)

// MedicinesModel is the inventory page: a debounced filter over the medicine list,
// with a banner for stock that expires soon.
type MedicinesModel struct {
	ctx          context.Context
	cancel       context.CancelFunc
	medicines    service.Medicines
	now          func() time.Time
	list         *remote.Resource[[]model.Medicine]
	expiring     *remote.Resource[[]model.Medicine]
	query        *remote.Query
	shown        model.FilterCriteria
	expanded     map[string]bool
	currency     viewmodel.Currency
	theme        themes.Theme
	spinner      spinner.Model
	dateErr      string
	form         form
	expiringDays int
	cursor       int
	width        int
	height       int
}

// NewMedicinesModel creates the medicine page.
func NewMedicinesModel(deps Deps) MedicinesModel {
	ctx, cancel := deps.mount()
	days := deps.ExpiringDays
	if days <= 0 {
		days = viewmodel.DefaultExpiringDays
	}
	return MedicinesModel{
		ctx:          ctx,
		cancel:       cancel,
		medicines:    deps.Backend,
		now:          deps.now,
		list:         remote.New[[]model.Medicine]("medicines"),
		expiring:     remote.New[[]model.Medicine]("expiring-medicines"),
		query:        remote.NewQuery(deps.Debounce),
		expanded:     make(map[string]bool),
		currency:     deps.Currency,
		theme:        deps.Theme,
		spinner:      newSpinner(deps.Theme),
		expiringDays: days,
		form: newForm(0,
			field{label: "Name", placeholder: "Search by name", limit: 60},
			field{label: "Category", placeholder: "Filter by category", limit: 60},
			field{label: "Expiry from", placeholder: "YYYY-MM-DD", limit: 10},
		),
	}
}

// Init loads the inventory and the expiring list.
func (m MedicinesModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.load(model.FilterCriteria{}),
		m.expiring.Load(m.ctx, m.medicines.ExpiringMedicines),
	)
}

func (m MedicinesModel) load(criteria model.FilterCriteria) tea.Cmd {
	svc := m.medicines
	return m.list.Load(m.ctx, func(ctx context.Context) ([]model.Medicine, error) {
		return svc.SearchMedicines(ctx, criteria)
	})
}

// Update handles messages.
func (m MedicinesModel) Update(msg tea.Msg) (MedicinesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case remote.QueryFired:
		if criteria, ok := m.query.Fired(msg); ok {
			m.cursor = 0
			m.shown = criteria
			return m, m.load(criteria)
		}
		return m, nil

	case remote.Loaded[[]model.Medicine]:
		if m.list.Accept(msg) {
			m.cursor = min(m.cursor, max(len(m.list.State().Data)-1, 0))
			return m, m.failure(m.list.State().Err)
		}
		if m.expiring.Accept(msg) {
			return m, m.failure(m.expiring.State().Err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.list.State().Loading() || m.expiring.State().Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.form.next()
			return m, nil
		case "shift+tab":
			m.form.prev()
			return m, nil
		case "up":
			m.cursor = max(m.cursor-1, 0)
			return m, nil
		case "down":
			m.cursor = min(m.cursor+1, max(len(m.list.State().Data)-1, 0))
			return m, nil
		case "enter":
			if meds := m.list.State().Data; m.cursor < len(meds) {
				id := meds[m.cursor].ID
				m.expanded[id] = !m.expanded[id]
			}
			return m, nil
		case "ctrl+r":
			return m.reset()
		case "ctrl+l":
			return m, tea.Batch(
				m.spinner.Tick,
				m.load(m.shown),
				m.expiring.Load(m.ctx, m.medicines.ExpiringMedicines),
			)
		}

		before := m.criteriaText()
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		if m.criteriaText() == before {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.search())
	}

	return m, nil
}

// search schedules a debounced reload for the current filter inputs. An unparsable date
// is reported and the previous search stays in place.
func (m *MedicinesModel) search() tea.Cmd {
	start, err := model.ParseDate(m.form.value(filterDate))
	if err != nil {
		m.dateErr = "Expiry from must be a date like 2026-01-31"
		m.query.Cancel()
		return nil
	}
	m.dateErr = ""
	return m.query.Set(model.FilterCriteria{
		Name:      m.form.value(filterName),
		Category:  m.form.value(filterCategory),
		StartDate: start,
	})
}

func (m MedicinesModel) reset() (MedicinesModel, tea.Cmd) {
	m.query.Cancel()
	m.form.reset()
	m.dateErr = ""
	m.cursor = 0
	m.shown = model.FilterCriteria{}
	return m, m.load(m.shown)
}

func (m MedicinesModel) criteriaText() string {
	return m.form.value(filterName) + "\x00" + m.form.value(filterCategory) + "\x00" + m.form.value(filterDate)
}

func (m MedicinesModel) failure(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return Fail(err)
}

// View renders the page.
func (m MedicinesModel) View() string {
	sections := []string{m.theme.Title.Render("Medicine Inventory")}

	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner, "")
	}

	sections = append(sections, m.renderFilters(), "")
	sections = append(sections, m.renderList())
	sections = append(sections, "", m.theme.Faint.Render("Tab switch filter · ↑/↓ select · Enter details · Ctrl+R reset · Ctrl+L reload"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m MedicinesModel) renderBanner() string {
	state := m.expiring.State()
	if state.Status != remote.StatusSuccess {
		return ""
	}

	now := m.now()
	soon := viewmodel.ExpiringSoon(state.Data, m.expiringDays, now)
	title := viewmodel.ExpiringBannerTitle(len(soon))
	if title == "" {
		return ""
	}

	lines := []string{m.theme.StatusWarning.Render(title)}
	for _, med := range soon {
		lines = append(lines, fmt.Sprintf("• %s (%s, %s)",
			viewmodel.SanitizeForDisplay(med.Name),
			viewmodel.FormatDateLong(med.ExpiryDate),
			viewmodel.ExpiryLabel(med.ExpiryDate, now),
		))
	}
	return m.theme.Banner.Render(strings.Join(lines, "\n"))
}

func (m MedicinesModel) renderFilters() string {
	filters := m.form.view(m.theme)
	if m.query.Pending() {
		filters += "\n" + m.theme.StatusPending.Render("Searching...")
	}
	if m.dateErr != "" {
		filters += "\n" + m.theme.StatusError.Render(m.dateErr)
	}
	return filters
}

func (m MedicinesModel) renderList() string {
	state := m.list.State()
	switch state.Status {
	case remote.StatusIdle, remote.StatusLoading:
		return m.spinner.View() + " " + m.theme.StatusPending.Render("Loading medicines...")
	case remote.StatusFailed:
		return m.theme.StatusError.Render(failureText(state.Err, "Log in to see the inventory"))
	}

	if len(state.Data) == 0 {
		return m.theme.Faint.Render("No medicines found")
	}

	now := m.now()
	cards := make([]string, 0, len(state.Data)+1)
	cards = append(cards, m.theme.Subtitle.Render(
		strconv.Itoa(len(state.Data))+" "+viewmodel.Plural(len(state.Data), "medicine", "medicines")))
	for i, med := range state.Data {
		cards = append(cards, m.renderCard(med, i == m.cursor, now))
	}
	return strings.Join(cards, "\n")
}

func (m MedicinesModel) renderCard(med model.Medicine, selected bool, now time.Time) string {
	name := viewmodel.TruncateString(viewmodel.SanitizeForDisplay(med.Name), 40)
	header := m.theme.Bold.Render(name)
	if selected {
		header = m.theme.Selected.Render(" " + name + " ")
	}

	lines := []string{
		header + "  " + m.theme.Faint.Render(viewmodel.SanitizeForDisplay(med.Category)),
		fmt.Sprintf("%s · qty %d · %s, %s",
			m.currency.FormatAmount(med.Price),
			med.Quantity,
			viewmodel.FormatDateLong(med.ExpiryDate),
			viewmodel.ExpiryLabel(med.ExpiryDate, now),
		),
	}

	if m.expanded[med.ID] {
		if med.Manufacturer != "" {
			lines = append(lines, "Manufacturer: "+viewmodel.SanitizeForDisplay(med.Manufacturer))
		}
		if med.Description != "" {
			lines = append(lines, viewmodel.SanitizeForDisplay(med.Description))
		}
		if med.Order != nil {
			lines = append(lines, fmt.Sprintf("Supplier: %s · Order %s",
				viewmodel.SanitizeForDisplay(med.Order.Supplier),
				viewmodel.SanitizeForDisplay(med.Order.OrderNumber)))
		}
		lines = append(lines, "Added "+viewmodel.FormatDateLong(med.CreatedAt))
	}

	style := m.theme.RoundedBox
	if m.width > 4 {
		style = style.Width(min(m.width-4, 72))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Resize updates the page dimensions.
func (m *MedicinesModel) Resize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.form.inputs {
		m.form.inputs[i].Width = min(max(width-4, 10), 40)
	}
}

// Close cancels pending searches and loads.
func (m MedicinesModel) Close() {
	m.query.Cancel()
	m.list.Close()
	m.expiring.Close()
	m.cancel()
}
