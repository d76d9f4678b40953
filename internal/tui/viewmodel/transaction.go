package viewmodel

import (
	"strings"

	"github.com/Veraticus/carepoint/internal/model"
)

// TransactionsPerPage is the page size of the transactions table.
const TransactionsPerPage = 5

// TypeFilter narrows the transactions table by direction.
type TypeFilter int

const (
	// FilterAll shows every transaction.
	FilterAll TypeFilter = iota
	// FilterIncome shows income only.
	FilterIncome
	// FilterExpense shows expenses only.
	FilterExpense
)

func (f TypeFilter) String() string {
	switch f {
	case FilterIncome:
		return "Income"
	case FilterExpense:
		return "Expenses"
	default:
		return "All"
	}
}

// Next cycles All, Income, Expenses.
func (f TypeFilter) Next() TypeFilter {
	return (f + 1) % 3
}

func (f TypeFilter) matches(t model.TransactionType) bool {
	switch f {
	case FilterIncome:
		return t == model.TransactionIncome
	case FilterExpense:
		return t == model.TransactionExpense
	default:
		return true
	}
}

// TransactionListView is the state of the transactions table.
type TransactionListView struct {
	Search  string
	Type    TypeFilter
	Page    int
	PerPage int
}

// TransactionPage is one page of the filtered table.
type TransactionPage struct {
	Items      []model.Transaction
	Page       int
	TotalPages int
	Matches    int
}

// HasFilter reports whether any filter is active.
func (v TransactionListView) HasFilter() bool {
	return v.Type != FilterAll || strings.TrimSpace(v.Search) != ""
}

// Filter keeps transactions whose category or description contains the search text,
// ignoring case, and whose type passes the type filter.
func (v TransactionListView) Filter(txs []model.Transaction) []model.Transaction {
	query := strings.ToLower(strings.TrimSpace(v.Search))
	out := []model.Transaction{}
	for _, tx := range txs {
		if !v.Type.matches(tx.Type) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(tx.Category), query) &&
			!strings.Contains(strings.ToLower(tx.Description), query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Apply filters txs and cuts out the requested page. Out-of-range pages are clamped.
func (v TransactionListView) Apply(txs []model.Transaction) TransactionPage {
	perPage := v.PerPage
	if perPage <= 0 {
		perPage = TransactionsPerPage
	}

	matches := v.Filter(txs)
	total := (len(matches) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}

	page := v.Page
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(matches) {
		end = len(matches)
	}

	return TransactionPage{
		Items:      matches[start:end],
		Page:       page,
		TotalPages: total,
		Matches:    len(matches),
	}
}
