package viewmodel

import (
	"testing"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "thousands", amount: "1234.5", want: "$1,234.50"},
		{name: "zero", amount: "0", want: "$0.00"},
		{name: "negative", amount: "-5", want: "-$5.00"},
		{name: "rounds half away from zero", amount: "2.345", want: "$2.35"},
		{name: "rounds negative half away from zero", amount: "-2.345", want: "-$2.35"},
		{name: "millions", amount: "1234567.891", want: "$1,234,567.89"},
		{name: "tiny negative rounds to zero", amount: "-0.004", want: "$0.00"},
		{name: "beyond float precision keeps cents", amount: "90071992547409.93", want: "$90,071,992,547,409.93"},
		{name: "quadrillions keep cents", amount: "1234567890123456.78", want: "$1,234,567,890,123,456.78"},
		{name: "large negative", amount: "-1234567890123456.785", want: "-$1,234,567,890,123,456.79"},
		{name: "past int64 prints plain digits", amount: "12345678901234567890.5", want: "$12345678901234567890.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrencyLocale(t *testing.T) {
	c := Currency{Symbol: "£", Locale: language.BritishEnglish}
	assert.Equal(t, "£1,234.50", c.Format(decimal.RequireFromString("1234.5")))

	de := Currency{Symbol: "€", Locale: language.German}
	assert.Equal(t, "€1.234.567.890.123,45", de.Format(decimal.RequireFromString("1234567890123.45")))

	und := Currency{Symbol: "$"}
	assert.Equal(t, "$1,000.00", und.Format(decimal.NewFromInt(1000)))
}

func TestFormatSigned(t *testing.T) {
	income := model.Transaction{Type: model.TransactionIncome, Amount: model.AmountFromFloat(12)}
	expense := model.Transaction{Type: model.TransactionExpense, Amount: model.AmountFromFloat(3.5)}

	assert.Equal(t, "+$12.00", DefaultCurrency.FormatSigned(income))
	assert.Equal(t, "-$3.50", DefaultCurrency.FormatSigned(expense))
	assert.Equal(t, "$3.50", DefaultCurrency.FormatAmount(expense.Amount))
}
