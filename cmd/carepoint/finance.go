package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/carepoint/internal/api"
	"github.com/Veraticus/carepoint/internal/cli"
	"github.com/Veraticus/carepoint/internal/finance"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/remote"
	"github.com/Veraticus/carepoint/internal/tui/viewmodel"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func financeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Follow the hospital ledger",
	}

	cmd.AddCommand(financeSummaryCmd())
	cmd.AddCommand(financeTransactionsCmd())
	cmd.AddCommand(financeTopCategoriesCmd())
	cmd.AddCommand(financeMostExpensiveCmd())
	cmd.AddCommand(financeDashboardCmd())
	cmd.AddCommand(financeAddCmd())

	return cmd
}

func financeSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and net profit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, client, err := connect(cmd)
			if err != nil {
				return err
			}
			summary, err := client.FinanceSummary(cmd.Context())
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, currencyFor(cfg)))
			return err
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func financeTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions",
		Long: `List the ledger a page at a time. --search matches category or description,
--type keeps only income or expense entries.`,
		Example: `  carepoint finance transactions --type expense --search salar
  carepoint finance transactions --page 2 --per-page 10`,
		RunE: runFinanceTransactions,
	}

	cmd.Flags().String("search", "", "Category or description contains")
	cmd.Flags().String("type", "all", "Transaction type (all, income, expense)")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("per-page", viewmodel.TransactionsPerPage, "Rows per page")
	addFormatFlag(cmd)

	return cmd
}

func parseTypeFilter(s string) (viewmodel.TypeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return viewmodel.FilterAll, nil
	case "income":
		return viewmodel.FilterIncome, nil
	case "expense", "expenses":
		return viewmodel.FilterExpense, nil
	default:
		return viewmodel.FilterAll, fmt.Errorf("unknown transaction type %q (want all, income or expense)", s)
	}
}

func runFinanceTransactions(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	typeName, _ := cmd.Flags().GetString("type")
	pageNum, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")

	filter, err := parseTypeFilter(typeName)
	if err != nil {
		return err
	}

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}
	txs, err := client.Transactions(cmd.Context())
	if err != nil {
		return err
	}

	view := viewmodel.TransactionListView{Search: search, Type: filter, Page: pageNum, PerPage: perPage}
	page := view.Apply(txs)

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, page.Items)
	}
	if page.Matches == 0 {
		msg := "No transactions"
		if view.HasFilter() {
			msg = "No transactions match the filter"
		}
		_, err = fmt.Fprintln(out, cli.FormatInfo(msg))
		return err
	}

	if _, err := fmt.Fprintln(out, renderTransactions(page.Items, currencyFor(cfg))); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d · %d %s",
		page.Page, page.TotalPages, page.Matches, viewmodel.Plural(page.Matches, "match", "matches"))))
	return err
}

func financeTopCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-categories",
		Short: "Rank categories by number of transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			_, client, err := connect(cmd)
			if err != nil {
				return err
			}
			counts, err := topCategories(cmd.Context(), client, limit)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderCategories(counts))
			return err
		},
	}
	cmd.Flags().Int("limit", 5, "Number of categories to show (0 for all)")
	addFormatFlag(cmd)
	return cmd
}

// topCategories prefers the server's ranking and counts the ledger itself when the
// ranking is unavailable or empty.
func topCategories(ctx context.Context, client *api.Client, limit int) ([]model.CategoryCount, error) {
	counts, err := client.TopCategories(ctx)
	if err == nil {
		counts = viewmodel.ServerCategories(counts)
	}
	if err != nil || len(counts) == 0 {
		txs, txErr := client.Transactions(ctx)
		if txErr != nil {
			if err != nil {
				return nil, err
			}
			return nil, txErr
		}
		counts = viewmodel.TopCategories(txs, 0)
	}
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func financeMostExpensiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "most-expensive",
		Short: "Show the largest transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, client, err := connect(cmd)
			if err != nil {
				return err
			}
			tx, err := client.MostExpensive(cmd.Context())
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), tx)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderMostExpensive(tx, currencyFor(cfg)))
			return err
		},
	}
	addFormatFlag(cmd)
	return cmd
}

// dashboard is every panel of the finance page, loaded together.
type dashboard struct {
	MostExpensive *model.Transaction    `json:"mostExpensive"`
	Transactions  []model.Transaction   `json:"transactions"`
	TopCategories []model.CategoryCount `json:"topCategories"`
	Summary       model.FinanceSummary  `json:"summary"`
}

func financeDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Load every finance panel at once",
		RunE:  runFinanceDashboard,
	}
	addFormatFlag(cmd)
	return cmd
}

func runFinanceDashboard(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = handler.HandleInterrupts(ctx, "Loading the dashboard")

	bar := cli.NewProgress(cmd.ErrOrStderr(), 4, "Loading dashboard")
	step := func() { _ = bar.Add(1) }

	var (
		d   dashboard
		top []model.CategoryCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(loadPanel(gctx, "summary", client.FinanceSummary, &d.Summary, step))
	g.Go(loadPanel(gctx, "transactions", client.Transactions, &d.Transactions, step))
	g.Go(loadPanel(gctx, "top categories", client.TopCategories, &top, step))
	g.Go(loadPanel(gctx, "most expensive", client.MostExpensive, &d.MostExpensive, step))
	if err := g.Wait(); err != nil {
		_ = bar.Exit()
		return err
	}

	d.TopCategories = viewmodel.ServerCategories(top)
	if len(d.TopCategories) == 0 {
		d.TopCategories = viewmodel.TopCategories(d.Transactions, 5)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, d)
	}

	currency := currencyFor(cfg)
	view := viewmodel.TransactionListView{Page: 1}
	page := view.Apply(d.Transactions)
	sections := []string{
		cli.FormatTitle("Finance Dashboard"),
		renderSummary(d.Summary, currency),
		"",
		renderCategories(d.TopCategories),
		"",
		renderMostExpensive(d.MostExpensive, currency),
		"",
		cli.BoldStyle.Render("Latest transactions"),
	}
	if page.Matches == 0 {
		sections = append(sections, cli.SubtleStyle.Render("No transactions"))
	} else {
		sections = append(sections, renderTransactions(page.Items, currency))
	}
	_, err = fmt.Fprintln(out, strings.Join(sections, "\n"))
	return err
}

// loadPanel fetches one dashboard panel into dst and calls done when it finishes.
func loadPanel[T any](ctx context.Context, name string, fetch remote.Fetcher[T], dst *T, done func()) func() error {
	return func() error {
		defer done()
		state := remote.New[T](name).Fetch(ctx, fetch)
		*dst = state.Data
		return state.Err
	}
}

func financeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  carepoint finance add --type income --amount 250 --category Consultations
  carepoint finance add --type expense --amount 89.90 --category Supplies --description "Gloves"`,
		RunE: runFinanceAdd,
	}

	cmd.Flags().String("type", string(model.TransactionIncome), "INCOME or EXPENSE")
	cmd.Flags().String("amount", "", "Amount, greater than zero")
	cmd.Flags().String("category", "", "Category")
	cmd.Flags().String("description", "", "Optional description")

	return cmd
}

func runFinanceAdd(cmd *cobra.Command, _ []string) error {
	draft := finance.EmptyDraft()
	draft.Type, _ = cmd.Flags().GetString("type")
	draft.Amount, _ = cmd.Flags().GetString("amount")
	draft.Category, _ = cmd.Flags().GetString("category")
	draft.Description, _ = cmd.Flags().GetString("description")

	// Nothing reaches the server until the draft is valid.
	if _, err := draft.Validate(); err != nil {
		return err
	}

	cfg, client, err := connect(cmd)
	if err != nil {
		return err
	}

	controller := finance.NewController(client)
	defer controller.Close()

	tx, err := controller.Submit(cmd.Context(), draft)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s %s (%s)",
		strings.ToLower(string(tx.Type)), currencyFor(cfg).FormatAmount(tx.Amount), tx.ID)))
	return err
}

func renderSummary(s model.FinanceSummary, currency viewmodel.Currency) string {
	rows := make([][]string, 0, 4)
	for _, p := range viewmodel.ChartSeries(s) {
		rows = append(rows, []string{p.Label, currency.Format(p.Value)})
	}
	if rate, ok := viewmodel.SavingsRate(s); ok {
		rows = append(rows, []string{"Savings", strconv.FormatInt(rate, 10) + "%"})
	}
	return cli.RenderTable([]string{"", "Amount"}, rows)
}

func renderCategories(counts []model.CategoryCount) string {
	if len(counts) == 0 {
		return cli.SubtleStyle.Render("No categories yet")
	}
	rows := make([][]string, 0, len(counts))
	for _, bar := range viewmodel.CategoryBars(counts, 20) {
		rows = append(rows, []string{
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(bar.Category), 24),
			viewmodel.Bar(bar.Width, bar.Width),
			strconv.Itoa(bar.Count),
		})
	}
	return cli.RenderTable([]string{"Category", "", "Transactions"}, rows)
}

func renderMostExpensive(tx *model.Transaction, currency viewmodel.Currency) string {
	if tx == nil {
		return cli.RenderBox("Most expensive transaction", "No transactions")
	}
	lines := []string{
		currency.FormatAmount(tx.Amount) + "  " + strings.ToLower(string(tx.Type)),
		viewmodel.SanitizeForDisplay(tx.Category),
	}
	if tx.Description != "" {
		lines = append(lines, viewmodel.SanitizeForDisplay(tx.Description))
	}
	lines = append(lines, viewmodel.FormatDate(tx.CreatedAt))
	return cli.RenderBox("Most expensive transaction", strings.Join(lines, "\n"))
}

func renderTransactions(txs []model.Transaction, currency viewmodel.Currency) string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			viewmodel.FormatDate(tx.CreatedAt),
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(tx.Category), 20),
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(tx.Description), 32),
			currency.FormatSigned(tx),
		})
	}
	return cli.RenderTable([]string{"Date", "Category", "Description", "Amount"}, rows)
}
