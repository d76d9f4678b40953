// Package viewmodel holds pure projections from fetched data to what pages render:
// chart series, rankings, currency text, expiry windows and list pages. Nothing here
// performs I/O or keeps state between calls.
package viewmodel

import (
	"sort"
	"strings"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/shopspring/decimal"
)

// Point is one bar of the summary chart.
type Point struct {
	Label string
	Value decimal.Decimal
}

// Chart series labels.
const (
	LabelIncome    = "Income"
	LabelExpenses  = "Expenses"
	LabelNetProfit = "Net Profit"
)

// ChartSeries turns a summary into the three chart bars, in display order.
func ChartSeries(s model.FinanceSummary) []Point {
	return []Point{
		{Label: LabelIncome, Value: s.Income.Decimal},
		{Label: LabelExpenses, Value: s.Expenses.Decimal},
		{Label: LabelNetProfit, Value: s.NetProfit.Decimal},
	}
}

// SavingsRate is net profit as a whole percentage of income. It is false when there is
// no income to compare against.
func SavingsRate(s model.FinanceSummary) (int64, bool) {
	if !s.Income.IsPositive() {
		return 0, false
	}
	rate := s.NetProfit.Div(s.Income.Decimal).Mul(decimal.NewFromInt(100)).Round(0)
	return rate.IntPart(), true
}

// TopCategories counts transactions per category, most frequent first. Ties keep the
// order in which categories first appear. n <= 0 returns every category.
func TopCategories(txs []model.Transaction, n int) []model.CategoryCount {
	index := make(map[string]int)
	counts := []model.CategoryCount{}

	for _, tx := range txs {
		i, seen := index[tx.Category]
		if !seen {
			index[tx.Category] = len(counts)
			counts = append(counts, model.CategoryCount{Category: tx.Category})
			i = len(counts) - 1
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// MostExpensive returns the transaction with the largest amount, or nil for an empty
// list. Ties go to the earliest CreatedAt, then to input order.
func MostExpensive(txs []model.Transaction) *model.Transaction {
	var best *model.Transaction
	for i := range txs {
		tx := &txs[i]
		if best == nil {
			best = tx
			continue
		}
		switch tx.Amount.Cmp(best.Amount.Decimal) {
		case 1:
			best = tx
		case 0:
			if tx.CreatedAt.Before(best.CreatedAt) {
				best = tx
			}
		}
	}
	if best == nil {
		return nil
	}
	result := *best
	return &result
}

// ServerCategories drops blank names from the server's ranking and keeps its order.
func ServerCategories(counts []model.CategoryCount) []model.CategoryCount {
	out := make([]model.CategoryCount, 0, len(counts))
	for _, c := range counts {
		name := strings.TrimSpace(c.Category)
		if name == "" {
			continue
		}
		out = append(out, model.CategoryCount{Category: name, Count: c.Count})
	}
	return out
}

// CategoryBar is one row of the top-categories chart.
type CategoryBar struct {
	Category string
	Count    int
	Width    int
}

// CategoryBars scales each count against the largest one so the top category fills
// maxWidth cells.
func CategoryBars(counts []model.CategoryCount, maxWidth int) []CategoryBar {
	most := 0
	for _, c := range counts {
		if c.Count > most {
			most = c.Count
		}
	}

	bars := make([]CategoryBar, 0, len(counts))
	for _, c := range counts {
		width := 0
		if most > 0 && maxWidth > 0 {
			width = c.Count * maxWidth / most
			if width == 0 && c.Count > 0 {
				width = 1
			}
		}
		bars = append(bars, CategoryBar{Category: c.Category, Count: c.Count, Width: width})
	}
	return bars
}
