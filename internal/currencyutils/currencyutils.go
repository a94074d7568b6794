// Package currencyutils formats ledger amounts for display. Formatting never
// alters the stored value.
package currencyutils

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = money.USD

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(-math.MaxInt64)
)

// Style classifies an amount for presentation.
type Style string

const (
	StyleExpense Style = "expense"
	StyleIncome  Style = "income"
	StyleNeutral Style = "neutral"
)

// AmountStyle returns expense for negative amounts, income for positive ones
// and neutral for zero.
func AmountStyle(amount decimal.Decimal) Style {
	switch amount.Sign() {
	case -1:
		return StyleExpense
	case 1:
		return StyleIncome
	}
	return StyleNeutral
}

// FormatCurrency renders amount in the given ISO 4217 currency, e.g. "-$4.50"
// or "$1,234.50" for USD. Amounts are rounded half away from zero to the
// currency's minor unit. Unknown codes, and amounts too large for go-money,
// fall back to "<CODE> 1234.50".
func FormatCurrency(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	currency := money.GetCurrency(code)
	if currency == nil {
		return code + " " + amount.StringFixed(2)
	}

	minor := amount.Shift(int32(currency.Fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		// go-money counts minor units in an int64.
		return code + " " + amount.StringFixed(int32(currency.Fraction))
	}
	return money.New(minor.IntPart(), code).Display()
}
