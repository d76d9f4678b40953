package viewmodel

import (
	"testing"
	"time"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func tx(id string, typ model.TransactionType, category string, amount float64, created time.Time) model.Transaction {
	return model.Transaction{
		ID:        id,
		Type:      typ,
		Category:  category,
		Amount:    model.AmountFromFloat(amount),
		CreatedAt: created,
	}
}

func TestChartSeries(t *testing.T) {
	summary := model.FinanceSummary{
		Income:    model.AmountFromFloat(1000),
		Expenses:  model.AmountFromFloat(400),
		NetProfit: model.AmountFromFloat(600),
	}

	want := []Point{
		{Label: "Income", Value: decimal.NewFromInt(1000)},
		{Label: "Expenses", Value: decimal.NewFromInt(400)},
		{Label: "Net Profit", Value: decimal.NewFromInt(600)},
	}
	if diff := cmp.Diff(want, ChartSeries(summary), decimalEqual); diff != "" {
		t.Errorf("ChartSeries() mismatch (-want +got):\n%s", diff)
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name    string
		summary model.FinanceSummary
		want    int64
		wantOK  bool
	}{
		{
			name:    "positive",
			summary: model.FinanceSummary{Income: model.AmountFromFloat(1000), NetProfit: model.AmountFromFloat(250)},
			want:    25,
			wantOK:  true,
		},
		{
			name:    "rounds",
			summary: model.FinanceSummary{Income: model.AmountFromFloat(300), NetProfit: model.AmountFromFloat(100)},
			want:    33,
			wantOK:  true,
		},
		{
			name:    "no income",
			summary: model.FinanceSummary{NetProfit: model.AmountFromFloat(-50)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SavingsRate(tt.summary)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopCategories(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		tx("1", model.TransactionExpense, "Supplies", 10, now),
		tx("2", model.TransactionIncome, "Consultations", 20, now),
		tx("3", model.TransactionExpense, "Salaries", 30, now),
		tx("4", model.TransactionExpense, "Salaries", 5, now),
		tx("5", model.TransactionExpense, "Supplies", 1, now),
		tx("6", model.TransactionIncome, "Pharmacy", 2, now),
	}

	tests := []struct {
		name string
		want []model.CategoryCount
		n    int
	}{
		{
			name: "ties keep first-seen order",
			n:    0,
			want: []model.CategoryCount{
				{Category: "Supplies", Count: 2},
				{Category: "Salaries", Count: 2},
				{Category: "Consultations", Count: 1},
				{Category: "Pharmacy", Count: 1},
			},
		},
		{
			name: "top two",
			n:    2,
			want: []model.CategoryCount{
				{Category: "Supplies", Count: 2},
				{Category: "Salaries", Count: 2},
			},
		},
		{
			name: "n larger than categories",
			n:    10,
			want: []model.CategoryCount{
				{Category: "Supplies", Count: 2},
				{Category: "Salaries", Count: 2},
				{Category: "Consultations", Count: 1},
				{Category: "Pharmacy", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, TopCategories(txs, tt.n)); diff != "" {
				t.Errorf("TopCategories() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.Empty(t, TopCategories(nil, 3))
	assert.NotNil(t, TopCategories(nil, 3))
}

func TestMostExpensive(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	tests := []struct {
		name   string
		txs    []model.Transaction
		wantID string
	}{
		{name: "empty", txs: nil},
		{
			name: "largest amount",
			txs: []model.Transaction{
				tx("a", model.TransactionExpense, "x", 10, early),
				tx("b", model.TransactionIncome, "x", 99.5, late),
				tx("c", model.TransactionExpense, "x", 50, early),
			},
			wantID: "b",
		},
		{
			name: "tie goes to earliest",
			txs: []model.Transaction{
				tx("late", model.TransactionExpense, "x", 100, late),
				tx("early", model.TransactionExpense, "x", 100, early),
			},
			wantID: "early",
		},
		{
			name: "full tie goes to input order",
			txs: []model.Transaction{
				tx("first", model.TransactionExpense, "x", 100, early),
				tx("second", model.TransactionExpense, "x", 100, early),
			},
			wantID: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MostExpensive(tt.txs)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestMostExpensiveReturnsCopy(t *testing.T) {
	txs := []model.Transaction{tx("a", model.TransactionExpense, "x", 10, time.Time{})}
	got := MostExpensive(txs)
	got.Category = "changed"
	assert.Equal(t, "x", txs[0].Category)
}

func TestServerCategories(t *testing.T) {
	got := ServerCategories([]model.CategoryCount{
		{Category: " Supplies ", Count: 4},
		{Category: "", Count: 2},
		{Category: "Salaries", Count: 3},
	})
	assert.Equal(t, []model.CategoryCount{
		{Category: "Supplies", Count: 4},
		{Category: "Salaries", Count: 3},
	}, got)
}

func TestCategoryBars(t *testing.T) {
	got := CategoryBars([]model.CategoryCount{
		{Category: "Supplies", Count: 10},
		{Category: "Salaries", Count: 5},
		{Category: "Rare", Count: 1},
		{Category: "None", Count: 0},
	}, 20)

	want := []CategoryBar{
		{Category: "Supplies", Count: 10, Width: 20},
		{Category: "Salaries", Count: 5, Width: 10},
		{Category: "Rare", Count: 1, Width: 2},
		{Category: "None", Count: 0, Width: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CategoryBars() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, CategoryBars(nil, 20))
}

func TestTransactionListView(t *testing.T) {
	var txs []model.Transaction
	for i, c := range []string{"Supplies", "Salaries", "Supplies", "Pharmacy", "Supplies", "Rent", "Supplies"} {
		typ := model.TransactionExpense
		if i%2 == 1 {
			typ = model.TransactionIncome
		}
		txs = append(txs, tx(string(rune('a'+i)), typ, c, float64(i+1), time.Time{}))
	}
	txs[3].Description = "supplies for ward"

	t.Run("pages of five", func(t *testing.T) {
		page := TransactionListView{Page: 2}.Apply(txs)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 7, page.Matches)
	})

	t.Run("search matches category or description", func(t *testing.T) {
		page := TransactionListView{Search: "SUPPL"}.Apply(txs)
		assert.Equal(t, 5, page.Matches)
	})

	t.Run("type filter", func(t *testing.T) {
		page := TransactionListView{Type: FilterIncome}.Apply(txs)
		assert.Equal(t, 3, page.Matches)
		for _, item := range page.Items {
			assert.Equal(t, model.TransactionIncome, item.Type)
		}
	})

	t.Run("page is clamped", func(t *testing.T) {
		page := TransactionListView{Page: 99}.Apply(txs)
		assert.Equal(t, 2, page.Page)

		empty := TransactionListView{Search: "nothing"}.Apply(txs)
		assert.Equal(t, 1, empty.Page)
		assert.Equal(t, 1, empty.TotalPages)
		assert.Empty(t, empty.Items)
	})

	assert.True(t, TransactionListView{Type: FilterExpense}.HasFilter())
	assert.False(t, TransactionListView{Search: "  "}.HasFilter())
	assert.Equal(t, FilterAll, FilterExpense.Next())
}
