package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/finance"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/remote"
	"github.com/Veraticus/carepoint/internal/service"
	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	draftAmount = iota
	draftCategory
	draftDescription
	draftType
)

const (
	chartWidth    = 30
	topCategories = 5
)

var transactionTypes = []string{string(model.TransactionIncome), string(model.TransactionExpense)}

type transactionCreatedMsg struct {
	err error
	tx  model.Transaction
}

// DashboardModel is the finance page: summary chart, category ranking, the largest
// transaction, a searchable transactions table and the add-transaction form.
type DashboardModel struct {
	ctx         context.Context
	cancel      context.CancelFunc
	finance     service.Finance
	controller  *finance.Controller
	changes     <-chan model.Transaction
	unsubscribe func()
	txs         *remote.Resource[[]model.Transaction]
	summary     *remote.Resource[model.FinanceSummary]
	top         *remote.Resource[[]model.CategoryCount]
	expensive   *remote.Resource[*model.Transaction]
	currency    viewmodel.Currency
	theme       themes.Theme
	spinner     spinner.Model
	savings     progress.Model
	search      textinput.Model
	formErr     string
	form        form
	listView    viewmodel.TransactionListView
	txType      int
	width       int
	inFlight    bool
	searching   bool
}

// NewDashboardModel creates the dashboard page.
func NewDashboardModel(deps Deps) DashboardModel {
	ctx, cancel := deps.mount()
	controller := finance.NewController(deps.Backend)
	changes, unsubscribe := controller.Subscribe()

	search := textinput.New()
	search.Placeholder = "Search category or description"
	search.CharLimit = 60
	search.Cursor.SetMode(cursor.CursorStatic)

	savings := progress.New(progress.WithDefaultGradient(), progress.WithWidth(chartWidth))
	savings.ShowPercentage = false

	m := DashboardModel{
		ctx:         ctx,
		cancel:      cancel,
		finance:     deps.Backend,
		controller:  controller,
		changes:     changes,
		unsubscribe: unsubscribe,
		txs:         remote.New[[]model.Transaction]("transactions"),
		summary:     remote.New[model.FinanceSummary]("finance-summary"),
		top:         remote.New[[]model.CategoryCount]("top-categories"),
		expensive:   remote.New[*model.Transaction]("most-expensive"),
		currency:    deps.Currency,
		theme:       deps.Theme,
		spinner:     newSpinner(deps.Theme),
		savings:     savings,
		search:      search,
		listView:    viewmodel.TransactionListView{Page: 1},
		form: newForm(1,
			field{label: "Amount", placeholder: "0.00", limit: 20},
			field{label: "Category", placeholder: "e.g. Supplies", limit: 60},
			field{label: "Description", placeholder: "optional", limit: 200},
		),
	}
	m.applyDraft(controller.Draft())
	return m
}

// Init loads every panel and starts listening for new transactions.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reload(), remote.Listen(m.changes))
}

func (m DashboardModel) reload() tea.Cmd {
	return tea.Batch(
		m.txs.Load(m.ctx, m.finance.Transactions),
		m.summary.Load(m.ctx, m.finance.FinanceSummary),
		m.top.Load(m.ctx, m.finance.TopCategories),
		m.expensive.Load(m.ctx, m.finance.MostExpensive),
	)
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case remote.Changed[model.Transaction]:
		return m, tea.Batch(m.reload(), remote.Listen(m.changes))

	case transactionCreatedMsg:
		if !m.inFlight {
			return m, nil
		}
		m.inFlight = false
		if msg.err != nil {
			m.formErr = common.UserMessage(msg.err)
			return m, Fail(msg.err)
		}
		m.formErr = ""
		m.applyDraft(finance.EmptyDraft())
		m.form.focusOn(draftAmount)
		return m, Notify(fmt.Sprintf("Added %s %s", strings.ToLower(string(msg.tx.Type)), m.currency.FormatAmount(msg.tx.Amount)))

	case remote.Loaded[[]model.Transaction]:
		m.txs.Accept(msg)
		return m, m.failure(m.txs.State().Err)
	case remote.Loaded[model.FinanceSummary]:
		m.summary.Accept(msg)
		return m, m.failure(m.summary.State().Err)
	case remote.Loaded[[]model.CategoryCount]:
		m.top.Accept(msg)
		return m, m.failure(m.top.State().Err)
	case remote.Loaded[*model.Transaction]:
		m.expensive.Accept(msg)
		return m, m.failure(m.expensive.State().Err)

	case spinner.TickMsg:
		if m.loading() || m.inFlight {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+f":
		m.searching = !m.searching
		if m.searching {
			m.search.Focus()
		} else {
			m.search.Blur()
		}
		return m, nil
	case "ctrl+t":
		m.listView.Type = m.listView.Type.Next()
		m.listView.Page = 1
		return m, nil
	case "pgdown":
		m.listView.Page++
		m.listView.Page = m.listView.Apply(m.txs.State().Data).Page
		return m, nil
	case "pgup":
		m.listView.Page = max(m.listView.Page-1, 1)
		return m, nil
	case "ctrl+l":
		return m, tea.Batch(m.spinner.Tick, m.reload())
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.listView.Search {
			m.listView.Search = m.search.Value()
			m.listView.Page = 1
		}
		return m, cmd
	}

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
	case "left", "right":
		if m.form.focus == draftType {
			m.txType = (m.txType + 1) % len(transactionTypes)
			return m, nil
		}
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// submit validates on the UI loop and only sends valid drafts.
func (m DashboardModel) submit() (DashboardModel, tea.Cmd) {
	draft := m.draft()
	if _, err := draft.Validate(); err != nil {
		m.controller.SetDraft(draft)
		m.formErr = common.UserMessage(err)
		return m, nil
	}

	m.inFlight = true
	m.formErr = ""
	controller, ctx := m.controller, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		tx, err := controller.Submit(ctx, draft)
		return transactionCreatedMsg{tx: tx, err: err}
	})
}

func (m DashboardModel) draft() finance.Draft {
	return finance.Draft{
		Type:        transactionTypes[m.txType],
		Amount:      m.form.value(draftAmount),
		Category:    m.form.value(draftCategory),
		Description: m.form.value(draftDescription),
	}
}

func (m *DashboardModel) applyDraft(d finance.Draft) {
	m.form.setValue(draftAmount, d.Amount)
	m.form.setValue(draftCategory, d.Category)
	m.form.setValue(draftDescription, d.Description)
	m.txType = 0
	if strings.EqualFold(d.Type, string(model.TransactionExpense)) {
		m.txType = 1
	}
}

func (m DashboardModel) loading() bool {
	return m.txs.State().Loading() || m.summary.State().Loading() ||
		m.top.State().Loading() || m.expensive.State().Loading()
}

func (m DashboardModel) failure(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return Fail(err)
}

// View renders the page.
func (m DashboardModel) View() string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSummary(),
		"",
		m.renderTopCategories(),
		"",
		m.renderMostExpensive(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderForm(),
		"",
		m.renderTransactions(),
	)

	var body string
	if m.width >= 110 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, left, "", right)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Finance Dashboard"),
		body,
		"",
		m.theme.Faint.Render("Enter add · Ctrl+F search · Ctrl+T type filter · PgUp/PgDn page · Ctrl+L reload"),
	)
}

func (m DashboardModel) renderSummary() string {
	title := m.theme.Subtitle.Render("Income vs expenses")
	state := m.summary.State()
	if body, ok := m.panelStatus(state.Status, state.Err, "summary"); !ok {
		return title + "\n" + body
	}

	series := viewmodel.ChartSeries(state.Data)
	largest := decimal.Zero
	for _, p := range series {
		if p.Value.Abs().GreaterThan(largest) {
			largest = p.Value.Abs()
		}
	}

	lines := []string{title}
	for _, p := range series {
		filled := 0
		if largest.IsPositive() {
			filled = int(p.Value.Abs().Mul(decimal.NewFromInt(chartWidth)).Div(largest).IntPart())
		}
		style := m.theme.BarFill
		switch {
		case p.Label == viewmodel.LabelIncome:
			style = m.theme.Income
		case p.Label == viewmodel.LabelExpenses || p.Value.IsNegative():
			style = m.theme.Expense
		}
		lines = append(lines, fmt.Sprintf("%-10s %s %s",
			p.Label, style.Render(viewmodel.Bar(filled, chartWidth)), m.currency.Format(p.Value)))
	}

	if rate, ok := viewmodel.SavingsRate(state.Data); ok {
		pct := min(max(float64(rate)/100, 0), 1)
		lines = append(lines, fmt.Sprintf("%-10s %s %d%%", "Savings", m.savings.ViewAs(pct), rate))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderTopCategories() string {
	title := m.theme.Subtitle.Render("Top categories")

	counts := viewmodel.ServerCategories(m.top.State().Data)
	if m.top.State().Status != remote.StatusSuccess || len(counts) == 0 {
		// Fall back to counting the loaded ledger.
		if txs := m.txs.State(); txs.Status == remote.StatusSuccess {
			counts = viewmodel.TopCategories(txs.Data, topCategories)
		} else if body, ok := m.panelStatus(m.top.State().Status, m.top.State().Err, "categories"); !ok {
			return title + "\n" + body
		}
	}
	if len(counts) == 0 {
		return title + "\n" + m.theme.Faint.Render("No categories yet")
	}
	if len(counts) > topCategories {
		counts = counts[:topCategories]
	}

	lines := []string{title}
	for _, bar := range viewmodel.CategoryBars(counts, chartWidth-10) {
		lines = append(lines, fmt.Sprintf("%-16s %s %d",
			viewmodel.TruncateString(bar.Category, 16),
			m.theme.BarFill.Render(viewmodel.Bar(bar.Width, bar.Width)),
			bar.Count))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderMostExpensive() string {
	title := m.theme.Subtitle.Render("Most expensive transaction")
	state := m.expensive.State()

	top := state.Data
	if body, ok := m.panelStatus(state.Status, state.Err, "transaction"); !ok {
		// The ledger itself can answer when the aggregate endpoint fails.
		txs := m.txs.State()
		if state.Status != remote.StatusFailed || txs.Status != remote.StatusSuccess {
			return title + "\n" + body
		}
		top = viewmodel.MostExpensive(txs.Data)
	}

	if top == nil {
		return title + "\n" + m.theme.Faint.Render("No transactions")
	}
	card := []string{
		m.theme.Bold.Render(m.currency.FormatAmount(top.Amount)) + "  " + m.typeLabel(top.Type),
		viewmodel.SanitizeForDisplay(top.Category),
	}
	if top.Description != "" {
		card = append(card, m.theme.Faint.Render(viewmodel.TruncateString(viewmodel.SanitizeForDisplay(top.Description), 40)))
	}
	card = append(card, viewmodel.FormatDate(top.CreatedAt))
	return title + "\n" + m.theme.RoundedBox.Render(strings.Join(card, "\n"))
}

func (m DashboardModel) renderForm() string {
	lines := []string{m.theme.Subtitle.Render("Add transaction")}

	typeLabel := m.theme.Subtitle.Render("Type")
	if m.form.focus == draftType && !m.searching {
		typeLabel = m.theme.Bold.Render("Type")
	}
	lines = append(lines,
		m.form.view(m.theme),
		typeLabel,
		selector(m.theme, transactionTypes, m.txType, m.form.focus == draftType && !m.searching),
	)

	switch {
	case m.inFlight:
		lines = append(lines, m.spinner.View()+" "+m.theme.StatusPending.Render("Saving..."))
	case m.formErr != "":
		lines = append(lines, m.theme.StatusError.Render(m.formErr))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderTransactions() string {
	title := m.theme.Subtitle.Render("Transactions")
	state := m.txs.State()
	if body, ok := m.panelStatus(state.Status, state.Err, "transactions"); !ok {
		return title + "\n" + body
	}

	page := m.listView.Apply(state.Data)
	lines := []string{
		title,
		fmt.Sprintf("Search: %s   Type: %s", m.search.View(), m.listView.Type),
	}

	if page.Matches == 0 {
		empty := "No transactions"
		if m.listView.HasFilter() {
			empty = "No transactions match the filter"
		}
		return strings.Join(append(lines, m.theme.Faint.Render(empty)), "\n")
	}

	for _, tx := range page.Items {
		amount := m.currency.FormatSigned(tx)
		if tx.Type == model.TransactionIncome {
			amount = m.theme.Income.Render(amount)
		} else {
			amount = m.theme.Expense.Render(amount)
		}
		lines = append(lines, fmt.Sprintf("%-10s %-16s %-24s %s",
			viewmodel.FormatDate(tx.CreatedAt),
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(tx.Category), 16),
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(tx.Description), 24),
			amount,
		))
	}
	lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("Page %d of %d · %d %s",
		page.Page, page.TotalPages, page.Matches, viewmodel.Plural(page.Matches, "match", "matches"))))
	return strings.Join(lines, "\n")
}

func (m DashboardModel) typeLabel(t model.TransactionType) string {
	if t == model.TransactionIncome {
		return m.theme.Income.Render("income")
	}
	return m.theme.Expense.Render("expense")
}

// panelStatus renders the placeholder for a panel that has no data to show. ok is
// true when the panel has loaded and should render its data instead.
func (m DashboardModel) panelStatus(status remote.Status, err error, what string) (string, bool) {
	switch status {
	case remote.StatusSuccess:
		return "", true
	case remote.StatusFailed:
		return m.theme.StatusError.Render(failureText(err, "Log in to see the "+what)), false
	default:
		return m.spinner.View() + " " + m.theme.StatusPending.Render("Loading "+what+"..."), false
	}
}

// Resize updates the page dimensions.
func (m *DashboardModel) Resize(width, _ int) {
	m.width = width
	for i := range m.form.inputs {
		m.form.inputs[i].Width = min(max(width/2-4, 10), 36)
	}
	m.search.Width = min(max(width/2-20, 10), 30)
}

// Close stops listening and abandons every load.
func (m DashboardModel) Close() {
	m.unsubscribe()
	m.controller.Close()
	m.txs.Close()
	m.summary.Close()
	m.top.Close()
	m.expensive.Close()
	m.cancel()
}
