package viewmodel

import (
	"math"
	"strings"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency controls how money is displayed.
type Currency struct {
	Symbol string
	Locale language.Tag
}

// DefaultCurrency is US dollars with en-US grouping.
var DefaultCurrency = Currency{Symbol: "$", Locale: language.AmericanEnglish}

// FormatCurrency renders an amount with the default currency.
func FormatCurrency(amount decimal.Decimal) string {
	return DefaultCurrency.Format(amount)
}

// Format rounds to the cent, half away from zero, and groups thousands for the
// currency's locale: 1234.5 becomes "$1,234.50" and -5 becomes "-$5.00". The cents are
// taken from the decimal itself, so large amounts keep them exactly.
func (c Currency) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	locale := c.Locale
	if locale == language.Und {
		locale = DefaultCurrency.Locale
	}
	p := message.NewPrinter(locale)

	abs := rounded.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).StringFixed(2)[2:]

	digits := whole.String()
	if whole.LessThanOrEqual(maxGrouped) {
		digits = p.Sprintf("%d", whole.IntPart())
	}

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol)
	b.WriteString(digits)
	b.WriteString(decimalSeparator(p))
	b.WriteString(cents)
	return b.String()
}

// maxGrouped is the largest whole part the printer can group; beyond it digits are
// printed plain.
var maxGrouped = decimal.NewFromInt(math.MaxInt64)

// decimalSeparator asks the printer how its locale writes one and a half.
func decimalSeparator(p *message.Printer) string {
	sep := strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 1.5), "1"), "5")
	if sep == "" {
		return "."
	}
	return sep
}

// FormatAmount renders a model amount.
func (c Currency) FormatAmount(a model.Amount) string {
	return c.Format(a.Decimal)
}

// FormatSigned prefixes income with + and expenses with -.
func (c Currency) FormatSigned(tx model.Transaction) string {
	sign := "-"
	if tx.Type == model.TransactionIncome {
		sign = "+"
	}
	return sign + c.Format(tx.Amount.Abs())
}
